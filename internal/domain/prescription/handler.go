package prescription

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, ts *auth.TokenService) {
	e.POST("/prescription/save/:token", h.Save, auth.RequireRole(ts, auth.RoleDoctor))
	e.GET("/prescription/:appointmentId/:token", h.Get, auth.RequireRole(ts, auth.RoleDoctor))
}

type saveRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	Medication    string    `json:"medication"`
	Dosage        string    `json:"dosage"`
	DoctorNotes   string    `json:"doctor_notes"`
}

func (h *Handler) Save(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.AppointmentID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment_id is required")
	}
	if req.Medication == "" || req.Dosage == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medication and dosage are required")
	}
	p := &Prescription{
		AppointmentID: req.AppointmentID,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}
	if err := h.svc.Save(c.Request().Context(), p); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Prescription saved successfully"})
}

func (h *Handler) Get(c echo.Context) error {
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	p, err := h.svc.Get(c.Request().Context(), appointmentID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"prescription": p})
}
