package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ConnectionProvider hands out one store connection per request.
type ConnectionProvider interface {
	Connection(ctx context.Context, fn func(conn *gorm.DB) error) error
	Ping(ctx context.Context) error
}

type Handler struct {
	Store ConnectionProvider
}

const connKey = "store.conn"

var errNoConn = errors.New("handler: no store connection bound to request")

// WithConnection reserves a store connection for the rest of the chain and
// releases it once the chain returns, whatever the outcome.
func (h *Handler) WithConnection(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.Store.Connection(c.Request().Context(), func(conn *gorm.DB) error {
			c.Set(connKey, conn)
			defer c.Set(connKey, nil)
			return next(c)
		})
	}
}

func conn(c echo.Context) (*gorm.DB, error) {
	db, ok := c.Get(connKey).(*gorm.DB)
	if !ok || db == nil {
		return nil, errNoConn
	}
	return db, nil
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.Store.Ping(c.Request().Context()); err != nil {
		c.Logger().Warnf("health check: %v", err)
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
