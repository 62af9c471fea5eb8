package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers/internal/repository"
)

// UnitOfWork opens unit of work for every request and closes it once request is handled
func UnitOfWork(factory repository.UnitOfWorkFactory, logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uow := factory.New()
			defer func() {
				if err := uow.Close(); err != nil {
					logger.WithError(err).Warn("failed to close unit of work")
				}
			}()

			req := c.Request()
			c.SetRequest(req.WithContext(repository.WithUnitOfWork(req.Context(), uow)))
			return next(c)
		}
	}
}
