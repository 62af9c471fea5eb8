package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/customers/internal/cache"
	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/internal/ui"
)

func apiApp(t *testing.T) *echo.Echo {
	t.Helper()

	logger, _ := test.NewNullLogger()
	cfg := config.APIConfig{
		StorageDriver: config.DriverSqlite,
		SqliteCfg:     config.SqliteCfg{Path: filepath.Join(t.TempDir(), "customers.db")},
	}

	storage, release, err := Storage(context.Background(), cfg, logger)
	require.NoError(t, err, "failed to open storage")
	t.Cleanup(release)

	e, err := APIRouter(storage, cache.NewNopCustomerCache(), cfg, logger)
	require.NoError(t, err, "failed to build api router")
	return e
}

func serve(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIRouter(t *testing.T) {
	e := apiApp(t)

	t.Log("empty list is returned with request id")
	{
		rec := serve(e, http.MethodGet, "/customer", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[]`, rec.Body.String())
		require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), "request id must be generated")
	}

	t.Log("customer is created through api alias")
	{
		rec := serve(e, http.MethodPost, "/api/customer", echo.MIMEApplicationJSON, `{"name":"Ann Lee","email":"ann@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
	}

	t.Log("validation failure is returned as field map")
	{
		rec := serve(e, http.MethodPost, "/customer", echo.MIMEApplicationJSON, `{"name":"Ann Lee","email":"bad"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"name":["Name already exists."],"email":["Email is not valid."]}`, rec.Body.String())
	}

	t.Log("malformed body is rejected")
	{
		rec := serve(e, http.MethodPut, "/customer", echo.MIMEApplicationJSON, `{"name":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	t.Log("non numeric id is rejected")
	{
		rec := serve(e, http.MethodGet, "/customer/abc", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"id":["Customer id must be an integer."]}`, rec.Body.String())
	}

	t.Log("post with unknown id is rejected")
	{
		rec := serve(e, http.MethodPost, "/customer", echo.MIMEApplicationJSON, `{"id":999,"name":"Bob Ray","email":"bob@example.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"id":["Customer does not exist."]}`, rec.Body.String())
	}

	t.Log("post with id of existing customer fails")
	{
		rec := serve(e, http.MethodPost, "/customer", echo.MIMEApplicationJSON, `{"id":1,"name":"Bob Ray","email":"bob@example.com"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	}

	t.Log("negative id is not found")
	{
		rec := serve(e, http.MethodGet, "/customer/-1", "", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = serve(e, http.MethodDelete, "/api/customer/-1", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"id":["Customer not found"]}`, rec.Body.String())
	}

	t.Log("created customer is available by id on both prefixes")
	{
		for _, target := range []string{"/customer/1", "/api/customer/1"} {
			rec := serve(e, http.MethodGet, target, "", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"id":1,"name":"Ann Lee","email":"ann@example.com","phone":null,"postCode":null,"country":null}`, rec.Body.String())
		}
	}

	t.Log("missing customer can't be deleted")
	{
		rec := serve(e, http.MethodDelete, "/customer/999", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"id":["Customer not found"]}`, rec.Body.String())
	}

	t.Log("health reports reachable storage")
	{
		rec := serve(e, http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
}

//nolint:funlen // function contains a lot of inlined tests
func TestUIRouter(t *testing.T) {
	api := httptest.NewServer(apiApp(t))
	defer api.Close()

	logger, _ := test.NewNullLogger()
	client := ui.NewCustomerClient(api.URL, 2*time.Second)
	e, err := UIRouter(client, config.UIConfig{}, logger)
	require.NoError(t, err, "failed to build ui router")

	postForm := func(target string, form url.Values) *httptest.ResponseRecorder {
		return serve(e, http.MethodPost, target, echo.MIMEApplicationForm, form.Encode())
	}

	t.Log("empty customers page")
	{
		rec := serve(e, http.MethodGet, "/", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "No customers yet")
		require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), "secure headers must be set")
	}

	t.Log("new customer is created and listed")
	{
		rec := postForm("/customers", url.Values{"name": {"Ann Lee"}, "email": {"ann@example.com"}, "postCode": {"SW1A 1AA"}})
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/customers", rec.Header().Get(echo.HeaderLocation))

		rec = serve(e, http.MethodGet, "/customers", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Ann Lee")
		require.Contains(t, rec.Body.String(), "SW1A 1AA")
	}

	t.Log("form errors are rendered without calling api")
	{
		rec := postForm("/customers", url.Values{"name": {""}, "email": {"bad"}})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "name is a required field")
		require.Contains(t, rec.Body.String(), "email must be a valid email address")
	}

	t.Log("api errors are rendered on the form")
	{
		rec := postForm("/customers", url.Values{"name": {"Ann Other"}, "email": {"ann@example.com"}, "phone": {"123"}})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Email already exists.")
		require.Contains(t, rec.Body.String(), "Phone number is not valid.")
	}

	t.Log("existing customer is edited")
	{
		rec := serve(e, http.MethodGet, "/customers/1/edit", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `value="Ann Lee"`)

		rec = postForm("/customers/1/edit", url.Values{"name": {"Ann Lee"}, "email": {"ann@example.com"}, "country": {"Germany"}})
		require.Equal(t, http.StatusFound, rec.Code)

		customer, err := client.Get(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, "Germany", model.Value(customer.Country))
		require.Nil(t, customer.PostCode, "update replaces customer fully")
	}

	t.Log("missing customer can't be edited")
	{
		rec := serve(e, http.MethodGet, "/customers/999/edit", "", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	t.Log("customer is deleted, second delete leads to error page")
	{
		rec := serve(e, http.MethodGet, "/customers/1/delete", "", "")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/customers", rec.Header().Get(echo.HeaderLocation))

		rec = serve(e, http.MethodGet, "/customers/1/delete", "", "")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/error", rec.Header().Get(echo.HeaderLocation))

		rec = serve(e, http.MethodGet, "/error", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "An error occurred")
	}
}

func TestCustomerCache(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	t.Log("cache is disabled without redis address")
	{
		customerCache, release, err := CustomerCache(ctx, config.RedisCfg{}, logger)
		require.NoError(t, err)
		defer release()

		c, err := customerCache.FindByID(ctx, 1)
		require.NoError(t, err)
		require.Nil(t, c)
	}

	t.Log("redis cache stores customers")
	{
		mr := miniredis.RunT(t)

		customerCache, release, err := CustomerCache(ctx, config.RedisCfg{Addr: mr.Addr(), TimeToLive: time.Minute}, logger)
		require.NoError(t, err)
		defer release()

		customer := &model.Customer{ID: 1, Name: "Ann Lee", Email: "ann@example.com"}
		require.NoError(t, customerCache.Create(ctx, customer))

		cached, err := customerCache.FindByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, customer, cached)
	}

	t.Log("unreachable redis is reported")
	{
		_, _, err := CustomerCache(ctx, config.RedisCfg{Addr: "127.0.0.1:1"}, logger)
		require.Error(t, err)
	}
}

func TestLogger(t *testing.T) {
	logger, err := Logger(config.LogCfg{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.True(t, logger.IsLevelEnabled(logrus.DebugLevel), "debug level must be enabled")

	_, err = Logger(config.LogCfg{Level: "verbose", Format: "text"})
	require.Error(t, err, "unknown level must be rejected")

	_, err = Logger(config.LogCfg{Level: "info", Format: "xml"})
	require.Error(t, err, "unknown format must be rejected")
}
