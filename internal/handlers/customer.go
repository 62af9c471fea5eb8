package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/internal/service"
)

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// GetAll returns all customers, empty array if there are none
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Get returns single customer by id or 404 without body
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if customer == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, customer)
}

// Post adds new customer, id is assigned by storage, non-zero id must refer to existing customer
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var customer model.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.customerSvc.Add(c.Request().Context(), &customer)
	return respond(c, res, err)
}

// Put fully replaces customer with id from body
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var customer model.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.customerSvc.Update(c.Request().Context(), &customer)
	return respond(c, res, err)
}

// Delete removes customer, missing customer is reported as validation failure
func (h *CustomerHTTPHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	res, err := h.customerSvc.Delete(c.Request().Context(), id)
	return respond(c, res, err)
}
