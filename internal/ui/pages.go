package ui

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/internal/validation"
	"github.com/umalmyha/customers/internal/view"
)

const (
	customersTemplate    = "customers.html"
	customerEditTemplate = "customer_edit.html"
	errorTemplate        = "error.html"
)

const (
	customersPath = "/customers"
	errorPath     = "/error"
)

// CustomerForm is customer as it is posted from pages
type CustomerForm struct {
	Name     string `form:"name" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone"`
	PostCode string `form:"postCode"`
	Country  string `form:"country"`
}

func formOf(c *model.Customer) CustomerForm {
	return CustomerForm{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    model.Value(c.Phone),
		PostCode: model.Value(c.PostCode),
		Country:  model.Value(c.Country),
	}
}

func (f CustomerForm) customer(id int) *model.Customer {
	return &model.Customer{
		ID:       id,
		Name:     f.Name,
		Email:    f.Email,
		Phone:    model.Optional(f.Phone),
		PostCode: model.Optional(f.PostCode),
		Country:  model.Optional(f.Country),
	}
}

type customersPage struct {
	Customers []*model.Customer
	Form      CustomerForm
}

type customerEditPage struct {
	ID   int
	Form CustomerForm
}

// CustomerPages renders customer pages backed by customers api
type CustomerPages struct {
	client CustomerClient
	logger logrus.FieldLogger
}

// NewCustomerPages builds new CustomerPages
func NewCustomerPages(client CustomerClient, logger logrus.FieldLogger) *CustomerPages {
	return &CustomerPages{client: client, logger: logger}
}

// List renders all customers and form for new one
func (p *CustomerPages) List(c echo.Context) error {
	return p.renderList(c, CustomerForm{}, nil)
}

// Create posts new customer to api
func (p *CustomerPages) Create(c echo.Context) error {
	var form CustomerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if fields, err := formErrors(c, &form); err != nil || fields != nil {
		if err != nil {
			return err
		}
		return p.renderList(c, form, fields)
	}

	err := p.client.Create(c.Request().Context(), form.customer(0))
	if err != nil {
		var vErr *apperrors.ValidationErr
		if errors.As(err, &vErr) {
			return p.renderList(c, form, vErr.Fields())
		}

		p.logger.WithError(err).Error("an error occurred while creating a new customer")
		return c.Redirect(http.StatusFound, errorPath)
	}

	return c.Redirect(http.StatusFound, customersPath)
}

// Edit renders form of existing customer
func (p *CustomerPages) Edit(c echo.Context) error {
	id, ok := pageID(c)
	if !ok {
		return p.renderError(c, http.StatusNotFound, "Customer not found.")
	}

	customer, err := p.client.Get(c.Request().Context(), id)
	if err != nil {
		var statusErr *StatusErr
		if errors.As(err, &statusErr) {
			p.logger.WithError(err).Errorf("error retrieving customer %d", id)
			return p.renderError(c, statusErr.Code, "")
		}

		p.logger.WithError(err).Errorf("an error occurred while retrieving customer %d", id)
		return p.renderError(c, http.StatusInternalServerError, "")
	}

	if customer == nil {
		p.logger.Errorf("customer with id %d not found", id)
		return p.renderError(c, http.StatusNotFound, "Customer not found.")
	}

	return p.render(c, http.StatusOK, customerEditTemplate, "Edit customer", &customerEditPage{ID: id, Form: formOf(customer)}, nil)
}

// Update puts edited customer to api
func (p *CustomerPages) Update(c echo.Context) error {
	id, ok := pageID(c)
	if !ok {
		return p.renderError(c, http.StatusNotFound, "Customer not found.")
	}

	var form CustomerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := &customerEditPage{ID: id, Form: form}
	if fields, err := formErrors(c, &form); err != nil || fields != nil {
		if err != nil {
			return err
		}
		return p.render(c, http.StatusOK, customerEditTemplate, "Edit customer", page, fields)
	}

	err := p.client.Update(c.Request().Context(), form.customer(id))
	if err != nil {
		var vErr *apperrors.ValidationErr
		if errors.As(err, &vErr) {
			return p.render(c, http.StatusOK, customerEditTemplate, "Edit customer", page, vErr.Fields())
		}

		p.logger.WithError(err).Errorf("an error occurred while updating customer %d", id)
		return p.renderError(c, http.StatusInternalServerError, "")
	}

	return c.Redirect(http.StatusFound, customersPath)
}

// Delete removes customer through api
func (p *CustomerPages) Delete(c echo.Context) error {
	id, ok := pageID(c)
	if !ok {
		return c.Redirect(http.StatusFound, errorPath)
	}

	if err := p.client.Delete(c.Request().Context(), id); err != nil {
		p.logger.WithError(err).Errorf("failed to delete customer with id %d", id)
		return c.Redirect(http.StatusFound, errorPath)
	}

	return c.Redirect(http.StatusFound, customersPath)
}

// Error renders generic error page
func (p *CustomerPages) Error(c echo.Context) error {
	return p.renderError(c, http.StatusOK, "")
}

func (p *CustomerPages) renderList(c echo.Context, form CustomerForm, fields map[string][]string) error {
	customers, err := p.client.GetAll(c.Request().Context())
	if err != nil {
		p.logger.WithError(err).Error("an error occurred while retrieving customers")
		customers = make([]*model.Customer, 0)
	}

	return p.render(c, http.StatusOK, customersTemplate, "Customers", &customersPage{Customers: customers, Form: form}, fields)
}

func (p *CustomerPages) renderError(c echo.Context, code int, msg string) error {
	return p.render(c, code, errorTemplate, "Error", msg, nil)
}

func (p *CustomerPages) render(c echo.Context, code int, name string, title string, data any, fields map[string][]string) error {
	return c.Render(code, name, view.TemplateData{
		Title:  title,
		Errors: fields,
		Data:   data,
	})
}

// formErrors validates form, broken rules are returned grouped by field
func formErrors(c echo.Context, form *CustomerForm) (map[string][]string, error) {
	err := c.Validate(form)
	if err == nil {
		return nil, nil
	}

	var pldErr *validation.PayloadError
	if !errors.As(err, &pldErr) {
		return nil, err
	}
	return apperrors.NewValidationErr(pldErr.Violations()...).Fields(), nil
}

func pageID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
