package renal

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaktimishra84/kinetic-egfr-app/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("physician", "pharmacist", "nurse"))
	g.POST("/kegfr/compute", h.Compute)
	g.POST("/kegfr/baseline", h.EstimateBaseline)
	g.GET("/kegfr/dosing-bands", h.DosingBands)
}

func (h *Handler) Compute(c echo.Context) error {
	var req ComputeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.Compute(c.Request().Context(), &req)
	if err != nil {
		var ce *ComputeError
		if errors.As(err, &ce) {
			return echo.NewHTTPError(http.StatusBadRequest, ce.Message)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) EstimateBaseline(c echo.Context) error {
	var req BaselineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.EstimateBaseline(c.Request().Context(), &req)
	if err != nil {
		var ce *ComputeError
		if errors.As(err, &ce) {
			return echo.NewHTTPError(http.StatusBadRequest, ce.Message)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) DosingBands(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Bands(c.Request().Context()))
}
