package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/api"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var errNotFound = echo.NewHTTPError(http.StatusNotFound, "Appointment not found")

func (s *Server) registerRoutes(g *echo.Group) {
	g.GET("", s.listMine)
	g.POST("", s.create)
	g.GET("/case/:caseId", s.listByCase)
	g.PATCH("/:id/confirm", s.transition(domain.ActionConfirm))
	g.PATCH("/:id/cancel", s.transition(domain.ActionCancel))
	g.PATCH("/:id/complete", s.transition(domain.ActionComplete))
	g.PATCH("/:id/date", s.reschedule)
	g.GET("/:id/ics", s.exportICS)
}

func participant(caller Caller, a domain.Appointment) bool {
	return a.ClientID == caller.ID || a.LawyerID == caller.ID
}

func (s *Server) listMine(c echo.Context) error {
	caller := callerFrom(c)
	list := s.data.list(func(a domain.Appointment) bool { return participant(caller, a) })
	return c.JSON(http.StatusOK, toWire(list))
}

func (s *Server) listByCase(c echo.Context) error {
	caller := callerFrom(c)
	caseID := c.Param("caseId")
	list := s.data.list(func(a domain.Appointment) bool {
		return a.CaseID == caseID && participant(caller, a)
	})
	return c.JSON(http.StatusOK, toWire(list))
}

func (s *Server) create(c echo.Context) error {
	caller := callerFrom(c)
	var req api.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be an ISO 8601 timestamp")
	}
	draft := domain.Draft{
		CaseID:      req.Case,
		ClientID:    req.Client,
		LawyerID:    req.Lawyer,
		Date:        date,
		Type:        domain.AppointmentType(req.Type),
		Description: req.Description,
		CreatedBy:   caller.Role,
	}
	if t, ok := domain.ParseType(req.Type); ok {
		draft.Type = t
	}
	switch caller.Role {
	case domain.RoleClient:
		if draft.ClientID == "" {
			draft.ClientID = caller.ID
		}
	case domain.RoleLawyer:
		if draft.LawyerID == "" {
			draft.LawyerID = caller.ID
		}
	}
	if err := draft.Validate(s.now()); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a := domain.Appointment{
		ID:          uuid.New().String(),
		CaseID:      draft.CaseID,
		ClientID:    draft.ClientID,
		LawyerID:    draft.LawyerID,
		Date:        draft.Date.UTC(),
		Type:        draft.Type,
		Status:      domain.StatusPending,
		Description: draft.Description,
	}
	s.data.put(a)
	return c.JSON(http.StatusCreated, api.FromDomain(a))
}

func (s *Server) transition(action domain.Action) echo.HandlerFunc {
	target, _ := action.TargetStatus()
	return func(c echo.Context) error {
		return s.mutate(c, func(a *domain.Appointment) error {
			if !domain.CanTransition(a.Status, target) {
				return echo.NewHTTPError(http.StatusConflict,
					fmt.Sprintf("Cannot %s an appointment that is %s", action, strings.ToLower(string(a.Status))))
			}
			if err := s.permit(*a, action); err != nil {
				return err
			}
			a.Status = target
			return nil
		})
	}
}

func (s *Server) reschedule(c echo.Context) error {
	var req api.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be an ISO 8601 timestamp")
	}
	if err := domain.ValidateReschedule(date, s.now()); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return s.mutate(c, func(a *domain.Appointment) error {
		if err := s.permit(*a, domain.ActionReschedule); err != nil {
			return err
		}
		a.Date = date.UTC()
		return nil
	})
}

func (s *Server) mutate(c echo.Context, fn func(*domain.Appointment) error) error {
	caller := callerFrom(c)
	updated, found, err := s.data.update(c.Param("id"), func(a *domain.Appointment) error {
		if !participant(caller, *a) {
			return errNotFound
		}
		return fn(a)
	})
	if !found {
		return errNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.FromDomain(updated))
}

// permit applies the lifecycle policy. Violations are conflicts.
func (s *Server) permit(a domain.Appointment, action domain.Action) error {
	now := s.now()
	if domain.PermittedActions(a, now).Has(action) {
		return nil
	}
	if domain.Expired(a, now) {
		return echo.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("Cannot %s an appointment whose date has passed", action))
	}
	return echo.NewHTTPError(http.StatusConflict,
		fmt.Sprintf("Cannot %s an appointment that is %s", action, strings.ToLower(string(a.Status))))
}

func (s *Server) exportICS(c echo.Context) error {
	a, ok := s.data.get(c.Param("id"))
	if !ok || !participant(callerFrom(c), a) {
		return errNotFound
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "appointment-"+a.ID+".ics"))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", renderICS(a, s.now()))
}

func toWire(list []domain.Appointment) []api.AppointmentJSON {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	out := make([]api.AppointmentJSON, len(list))
	for i, a := range list {
		out[i] = api.FromDomain(a)
	}
	return out
}
