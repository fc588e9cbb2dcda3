package api

import (
	"errors"
	"net/http"

	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/pkg/cache"
	xlogger "TradeCore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DecisionsHandler serves the read-only decisions API. All data comes from the
// decision cache the evaluation cycle keeps current; handlers never touch the
// engine itself.
type DecisionsHandler struct {
	log       *xlogger.Logger
	decisions domrepo.DecisionCache
	symbols   []string
}

func NewDecisionsHandler(log *xlogger.Logger, decisions domrepo.DecisionCache, symbols []string) *DecisionsHandler {
	return &DecisionsHandler{log: log, decisions: decisions, symbols: symbols}
}

func (h *DecisionsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/decisions", h.All)
	g.GET("/decisions/:instrument", h.Latest)
	g.GET("/instruments", h.Instruments)
}

type errorResponse struct {
	Error string `json:"error"`
}

// All returns the latest decision for every configured instrument. Instruments
// with no decision yet are omitted.
func (h *DecisionsHandler) All(c echo.Context) error {
	ds, err := h.decisions.All(c.Request().Context(), h.symbols)
	if err != nil {
		h.log.Error("decisions list failed", xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "decisions unavailable"})
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return c.JSON(http.StatusOK, ds)
}

// Latest returns the most recent decision for one instrument.
func (h *DecisionsHandler) Latest(c echo.Context) error {
	instrument := c.Param("instrument")
	if !h.known(instrument) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown instrument"})
	}

	d, err := h.decisions.Latest(c.Request().Context(), instrument)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		h.log.Error("decision lookup failed", xlogger.String("instrument", instrument), xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "decision unavailable"})
	}
	if d == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no decision yet"})
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return c.JSON(http.StatusOK, d)
}

// Instruments returns the configured instrument list in admission order.
func (h *DecisionsHandler) Instruments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.symbols)
}

func (h *DecisionsHandler) known(instrument string) bool {
	for _, s := range h.symbols {
		if s == instrument {
			return true
		}
	}
	return false
}
