package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the bookkeeping page and its form actions.
type Handler struct {
	reg      *Registry
	currency string
	log      *zap.Logger
}

func NewHandler(reg *Registry, defaultCurrency string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{reg: reg, currency: defaultCurrency, log: log}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339Nano),
		"browsers": h.reg.Len(),
	})
}
