package doctor

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
	"github.com/misterunderhilll/clinic-scheduler/pkg/pagination"
)

// Path segments use "none" for an absent filter criterion, since a path
// param can never be empty.
const absent = "none"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, ts *auth.TokenService) {
	e.POST("/doctor/login", h.Login)
	e.GET("/doctor", h.List)
	e.GET("/doctor/filter/:name/:time/:speciality", h.Filter)
	e.GET("/doctor/availability/:user/:doctorId/:date/:token", h.Availability,
		auth.RequireRoleFromParam(ts, "user"))

	e.POST("/doctor/register/:token", h.Register, auth.RequireRole(ts, auth.RoleAdmin))
	e.PUT("/doctor/update/:token", h.Update, auth.RequireRole(ts, auth.RoleAdmin))
	e.DELETE("/doctor/delete/:doctorId/:token", h.Delete, auth.RequireRole(ts, auth.RoleAdmin))
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

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	doctors, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, p.Limit, p.Offset))
}

func (h *Handler) Filter(c echo.Context) error {
	name := c.Param("name")
	period := c.Param("time")
	specialty := c.Param("speciality")

	if name == absent {
		name = ""
	}
	if period == absent {
		period = ""
	}
	if specialty == absent {
		specialty = ""
	}
	if period != "" && !ValidPeriod(period) {
		return echo.NewHTTPError(http.StatusBadRequest, "time must be AM or PM")
	}

	doctors, err := h.svc.Filter(c.Request().Context(), name, specialty, period)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctors": doctors})
}

func (h *Handler) Availability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	slots, err := h.svc.Availability(c.Request().Context(), doctorID, date)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"availability": slots})
}

type registerRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Phone          string   `json:"phone"`
	Specialty      string   `json:"specialty"`
	AvailableTimes []string `json:"available_times"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	d := &Doctor{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialty:      req.Specialty,
		AvailableTimes: req.AvailableTimes,
	}
	if err := h.svc.Register(c.Request().Context(), d, req.Password); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Doctor added to db",
		"doctor":  d,
	})
}

type updateRequest struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialty      string    `json:"specialty"`
	AvailableTimes []string  `json:"available_times"`
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	d := &Doctor{
		ID:             req.ID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialty:      req.Specialty,
		AvailableTimes: req.AvailableTimes,
	}
	if err := h.svc.Update(c.Request().Context(), d); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Doctor updated"})
}

func (h *Handler) Delete(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	if err := h.svc.Delete(c.Request().Context(), doctorID); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
}
