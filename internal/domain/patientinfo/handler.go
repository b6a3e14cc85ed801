package patientinfo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ctomop/ctomop/internal/platform/auth"
	"github.com/ctomop/ctomop/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – admin, physician, researcher
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleResearcher))
	readGroup.GET("/patient-info", h.ListPatientInfo)
	readGroup.GET("/patient-info/:person_id", h.GetPatientInfo)

	// Recompute – admin only
	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.POST("/patient-info/:person_id/refresh", h.RefreshPatientInfo)
}

func personIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("person_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid person_id")
	}
	return id, nil
}

func (h *Handler) GetPatientInfo(c echo.Context) error {
	id, err := personIDParam(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient info not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatientInfo(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Disease:        c.QueryParam("disease"),
		Gene:           c.QueryParam("gene"),
		Origin:         Origin(c.QueryParam("origin")),
		Interpretation: Interpretation(c.QueryParam("interpretation")),
	}
	if v := c.QueryParam("person_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid person_id")
		}
		f.PersonID = &id
	}

	items, total, err := h.svc.Query(c.Request().Context(), f, pg.Limit, pg.Offset)
	if errors.Is(err, ErrInvalidFilter) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*PatientInfo{}
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset).
		WithLinks(c.Request().URL.Path, c.QueryParams())
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RefreshPatientInfo(c echo.Context) error {
	id, err := personIDParam(c)
	if err != nil {
		return err
	}
	outcome, p, err := h.svc.Refresh(c.Request().Context(), id)
	if outcome == "not_found" {
		return echo.NewHTTPError(http.StatusNotFound, "person not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"outcome":      outcome,
		"patient_info": p,
	})
}
