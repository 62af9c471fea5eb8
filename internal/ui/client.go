package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
)

// StatusErr is raised when api responded with unexpected status
type StatusErr struct {
	Code int
}

func (e *StatusErr) Error() string {
	return fmt.Sprintf("customers api responded with status %d", e.Code)
}

// CustomerClient calls customers api, 400 responses are returned as *errors.ValidationErr
type CustomerClient interface {
	GetAll(context.Context) ([]*model.Customer, error)
	Get(context.Context, int) (*model.Customer, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, *model.Customer) error
	Delete(context.Context, int) error
}

type customerClient struct {
	address    string
	httpClient *http.Client
}

// NewCustomerClient builds CustomerClient for api available at address
func NewCustomerClient(address string, timeout time.Duration) CustomerClient {
	return &customerClient{
		address:    strings.TrimRight(address, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *customerClient) GetAll(ctx context.Context) ([]*model.Customer, error) {
	customers := make([]*model.Customer, 0)
	if err := c.do(ctx, http.MethodGet, "/customer", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *customerClient) Get(ctx context.Context, id int) (*model.Customer, error) {
	var customer model.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customer/%d", id), nil, &customer); err != nil {
		var statusErr *StatusErr
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (c *customerClient) Create(ctx context.Context, customer *model.Customer) error {
	return c.do(ctx, http.MethodPost, "/customer", customer, nil)
}

func (c *customerClient) Update(ctx context.Context, customer *model.Customer) error {
	return c.do(ctx, http.MethodPut, "/customer", customer, nil)
}

func (c *customerClient) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customer/%d", id), nil, nil)
}

func (c *customerClient) do(ctx context.Context, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body - %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.address+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call customers api - %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response of customers api - %w", err)
		}
		return nil
	case http.StatusBadRequest:
		var fields map[string][]string
		if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil || len(fields) == 0 {
			return &StatusErr{Code: resp.StatusCode}
		}
		return apperrors.ValidationErrFromMap(fields)
	default:
		return &StatusErr{Code: resp.StatusCode}
	}
}
