package appointment

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

const absent = "none"

// PatientDirectory resolves a patient token subject to a patient id.
type PatientDirectory interface {
	IDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}

type Handler struct {
	svc      *Service
	patients PatientDirectory
}

func NewHandler(svc *Service, patients PatientDirectory) *Handler {
	return &Handler{svc: svc, patients: patients}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, ts *auth.TokenService) {
	e.POST("/appointments/book/:token", h.Book, auth.RequireRole(ts, auth.RolePatient))
	e.PUT("/appointments/update/:token", h.Update, auth.RequireRole(ts, auth.RolePatient))
	e.DELETE("/appointments/cancel/:appointmentId/:token", h.Cancel, auth.RequireRole(ts, auth.RolePatient))
	e.GET("/appointments/:date/:patientName/:token", h.DoctorDay, auth.RequireRole(ts, auth.RoleDoctor))
	e.PATCH("/appointments/:appointmentId/status/:status/:token", h.ChangeStatus, auth.RequireRole(ts, auth.RoleDoctor))
}

func (h *Handler) patientID(c echo.Context) (uuid.UUID, error) {
	id, err := h.patients.IDByEmail(c.Request().Context(), auth.Subject(c))
	if err != nil {
		return uuid.Nil, apperr.HTTPError(apperr.ErrUnauthorized)
	}
	return id, nil
}

type bookRequest struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	StartsAt time.Time `json:"starts_at"`
}

func (h *Handler) Book(c echo.Context) error {
	patientID, err := h.patientID(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.DoctorID == uuid.Nil || req.StartsAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id and starts_at are required")
	}

	a, err := h.svc.Book(c.Request().Context(), patientID, req.DoctorID, req.StartsAt)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Appointment booked successfully",
		"appointment": a,
	})
}

type updateRequest struct {
	ID       uuid.UUID `json:"id"`
	StartsAt time.Time `json:"starts_at"`
	Status   Status    `json:"status"`
}

func (h *Handler) Update(c echo.Context) error {
	patientID, err := h.patientID(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ID == uuid.Nil || req.StartsAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "id and starts_at are required")
	}

	if err := h.svc.Update(c.Request().Context(), req.ID, patientID, req.StartsAt, req.Status); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment updated successfully"})
}

func (h *Handler) Cancel(c echo.Context) error {
	patientID, err := h.patientID(c)
	if err != nil {
		return err
	}
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	if err := h.svc.Cancel(c.Request().Context(), appointmentID, patientID); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment canceled"})
}

func (h *Handler) DoctorDay(c echo.Context) error {
	doctorID, err := h.svc.DoctorIDByEmail(c.Request().Context(), auth.Subject(c))
	if err != nil {
		return apperr.HTTPError(apperr.ErrUnauthorized)
	}
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	patientName := c.Param("patientName")
	if patientName == absent {
		patientName = ""
	}

	items, err := h.svc.DoctorDay(c.Request().Context(), doctorID, date, patientName)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if items == nil {
		items = []*Detail{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	raw, err := strconv.Atoi(c.Param("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be numeric")
	}

	if err := h.svc.ChangeStatus(c.Request().Context(), appointmentID, Status(raw)); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Status updated"})
}
