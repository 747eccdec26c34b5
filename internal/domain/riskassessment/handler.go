package riskassessment

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebridge/riskengine/internal/platform/auth"
	"github.com/carebridge/riskengine/pkg/pagination"
)

// PersistedHeader is set to "false" on a created assessment that could not
// be stored. The assessment body is still returned in full.
const PersistedHeader = "X-Assessment-Persisted"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Questionnaires arrive from intake as well as from clinicians.
	writeGroup := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleIntake))
	writeGroup.POST("/risk-assessments", h.CreateAssessment)

	readGroup := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	readGroup.GET("/risk-assessments", h.ListAssessments)
	readGroup.GET("/risk-assessments/:id", h.GetAssessment)
	readGroup.GET("/users/:userId/risk-assessments/latest", h.GetLatest)
}

func (h *Handler) CreateAssessment(c echo.Context) error {
	var q ProcessedQuestionnaire
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed questionnaire body")
	}
	out, err := h.svc.Assess(c.Request().Context(), &q)
	if err != nil {
		if errors.Is(err, ErrInvalidQuestionnaire) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if out.StoreErr != nil {
		c.Response().Header().Set(PersistedHeader, "false")
	}
	return c.JSON(http.StatusCreated, out.Assessment)
}

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByUser(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*AdvancedRiskAssessment{}
	}
	links := pg.Links(c.Request().URL.Path, url.Values{"user_id": {userID}}, total)
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithLinks(links))
}

func (h *Handler) GetLatest(c echo.Context) error {
	a, err := h.svc.Latest(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return lookupError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func lookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "risk assessment not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
