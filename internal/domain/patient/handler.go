package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/domain/appointment"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

const absent = "none"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, ts *auth.TokenService) {
	e.POST("/patient/register", h.Register)
	e.POST("/patient/login", h.Login)
	e.GET("/patient/me/:token", h.Me, auth.RequireRole(ts, auth.RolePatient))
	e.GET("/patient/appointments/:patientId/:token/:user", h.Appointments,
		auth.RequireRoleFromParam(ts, "user"))
	e.GET("/patient/appointments/filter/:condition/:name/:token", h.Filter,
		auth.RequireRole(ts, auth.RolePatient))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	p := &Patient{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.svc.Register(c.Request().Context(), p, req.Password); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Patient registered",
		"patient": p,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Me(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), auth.Subject(c))
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patient": p})
}

func (h *Handler) Appointments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	// A patient token may only see its own appointments; a doctor token may
	// see any patient's.
	if role, _ := c.Get(auth.RoleKey).(auth.Role); role == auth.RolePatient {
		ownID, err := h.svc.IDByEmail(c.Request().Context(), auth.Subject(c))
		if err != nil || ownID != patientID {
			return apperr.HTTPError(apperr.ErrForbidden)
		}
	}

	items, err := h.svc.Appointments(c.Request().Context(), patientID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if items == nil {
		items = []*appointment.Detail{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
}

func (h *Handler) Filter(c echo.Context) error {
	condition := c.Param("condition")
	doctorName := c.Param("name")
	if condition == absent {
		condition = ""
	}
	if doctorName == absent {
		doctorName = ""
	}

	patientID, err := h.svc.IDByEmail(c.Request().Context(), auth.Subject(c))
	if err != nil {
		return apperr.HTTPError(apperr.ErrUnauthorized)
	}

	items, err := h.svc.FilterAppointments(c.Request().Context(), patientID, condition, doctorName)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if items == nil {
		items = []*appointment.Detail{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
}
