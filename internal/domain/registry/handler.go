package registry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/platform/fhir"
	"github.com/hospreg/hospreg/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	api.GET("/facility", h.GetFacility)
	api.PUT("/facility", h.SetFacility)
	api.GET("/practitioners", h.ListPractitioners)
	api.GET("/practitioners/:id", h.GetPractitioner)
	api.POST("/practitioners", h.AddPractitioner)

	fhirGroup.GET("/Practitioner/:id", h.GetPractitionerFHIR)
	fhirGroup.GET("/Organization/:id", h.GetOrganizationFHIR)
}

// SetFacilityRequest is the body of PUT /facility.
type SetFacilityRequest struct {
	Name string `json:"name"`
}

// AddPractitionerRequest is the body of POST /practitioners.
type AddPractitionerRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type facilityResponse struct {
	Message  string   `json:"message"`
	Facility Facility `json:"facility"`
}

type practitionerResponse struct {
	Message      string `json:"message"`
	Practitioner Row    `json:"practitioner"`
}

// -- Operational Handlers --

func (h *Handler) SetFacility(c echo.Context) error {
	var req SetFacilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	msg, err := h.svc.SetFacility(ctx, req.Name)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}
	f, err := h.svc.CurrentFacility(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, facilityResponse{Message: msg, Facility: f})
}

func (h *Handler) GetFacility(c echo.Context) error {
	f, err := h.svc.CurrentFacility(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusNotFound, messageResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) AddPractitioner(c echo.Context) error {
	var req AddPractitionerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	msg, err := h.svc.AddPractitioner(ctx, req.ID, req.Name, req.Specialty)
	if err != nil {
		return c.JSON(addStatus(err), messageResponse{Message: err.Error()})
	}
	p, err := h.svc.FindByID(ctx, req.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, practitionerResponse{Message: msg, Practitioner: p.Row()})
}

func addStatus(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, ErrFacilityNotSet):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrUnexpected):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) GetPractitioner(c echo.Context) error {
	id := c.Param("id")
	p, err := h.svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, messageResponse{Message: NotFoundMessage(id)})
	}
	return c.JSON(http.StatusOK, p.Row())
}

func (h *Handler) ListPractitioners(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPractitioners(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([]Row, len(items))
	for i, p := range items {
		rows[i] = p.Row()
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, pg.Limit, pg.Offset))
}

// -- FHIR Endpoints --

func (h *Handler) GetPractitionerFHIR(c echo.Context) error {
	p, err := h.svc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Practitioner", c.Param("id")))
	}
	return c.JSON(http.StatusOK, p.ToFHIR())
}

func (h *Handler) GetOrganizationFHIR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("invalid id"))
	}
	f, err := h.svc.GetFacility(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Organization", c.Param("id")))
	}
	return c.JSON(http.StatusOK, f.ToFHIR())
}

// NotFoundMessage is the text shown when a DNI search has no match.
func NotFoundMessage(id string) string {
	return fmt.Sprintf("no doctor found with DNI %s", id)
}
