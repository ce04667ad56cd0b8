package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Query parameters honoured by every page route.
const (
	QueryFormat  = "format"
	QueryTheme   = "theme"
	QueryVariant = "variant"
)

// FieldCSRF names the hidden input and cookie carrying the anti-forgery token.
const FieldCSRF = "_csrf"

const csrfContextKey = "csrf"

// RateLimitedMessage is shown when a client exceeds its submission budget.
const RateLimitedMessage = "Demasiadas solicitudes. Espera un momento e intenta de nuevo."

// session is the per-request pairing of controller and submission handler.
type session struct {
	ctrl    *wizard.Controller
	handler *submission.Handler
}

func (s *Server) newSession(step int) session {
	handlerOpts := []submission.HandlerOption{submission.WithHandlerLogger(s.logger)}
	if s.metrics != nil {
		handlerOpts = append(handlerOpts, submission.WithRecorder(s.metrics.RecordSubmission))
	}
	handler := submission.NewHandler(s.def, s.predictor, handlerOpts...)
	ctrl := wizard.NewController(s.def,
		wizard.WithStep(step),
		wizard.WithLogger(s.logger),
		wizard.WithoutLiveGating(),
		wizard.WithBusy(handler.Busy),
	)
	return session{ctrl: ctrl, handler: handler}
}

func (s *Server) index(c echo.Context) error {
	sess := s.newSession(1)
	values := model.Defaults(s.def)
	return s.renderPage(c, http.StatusOK, sess, values, validation.Result{}, submission.Outcome{Status: submission.StatusIdle})
}

func (s *Server) navigate(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body")
	}
	step, _ := strconv.Atoi(strings.TrimSpace(form.Get(render.FieldStep)))
	action := strings.TrimSpace(form.Get(render.FieldAction))
	values := model.SnapshotFromForm(s.def, form)

	sess := s.newSession(step)
	outcome := submission.Outcome{Status: submission.StatusIdle}
	var marks validation.Result
	status := http.StatusOK

	switch action {
	case render.ActionNext:
		res := sess.ctrl.Advance(values)
		s.recordNavigation(action, res.Valid)
		if !res.Valid {
			marks = res
			status = http.StatusUnprocessableEntity
		}
	case render.ActionPrev:
		sess.ctrl.Retreat()
		s.recordNavigation(action, true)
	case render.ActionSubmit:
		if s.limiter != nil && !s.limiter.Allow(c.RealIP()) {
			if s.metrics != nil {
				s.metrics.RateLimitedTotal.Inc()
			}
			s.logger.Warn("submission rate limited", zap.String("remote_ip", c.RealIP()))
			outcome = submission.Outcome{Status: submission.StatusFailure, Message: RateLimitedMessage}
			status = http.StatusTooManyRequests
			break
		}
		sess.ctrl.Goto(s.def.TotalSteps())
		out, err := sess.handler.Submit(c.Request().Context(), values)
		switch {
		case errors.Is(err, submission.ErrInvalidForm):
			marks = out.Validation
			status = http.StatusUnprocessableEntity
		case err != nil:
			status = http.StatusConflict
		}
		outcome = out
	default:
		s.logger.Debug("unknown wizard action", zap.String("action", action))
	}

	return s.renderPage(c, status, sess, values, marks, outcome)
}

func (s *Server) renderPage(c echo.Context, status int, sess session, values model.Snapshot, marks validation.Result, outcome submission.Outcome) error {
	renderer, err := s.renderers.Resolve(c.QueryParam(QueryFormat))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotAcceptable, err.Error())
	}

	page := render.Page{
		Definition: s.def,
		View:       sess.ctrl.Render(values, marks),
		Outcome:    outcome,
		Action:     s.formAction(c),
	}
	if token, ok := c.Get(csrfContextKey).(string); ok && token != "" {
		page.Hidden = append(page.Hidden, render.CSRFToken(FieldCSRF, token))
	}
	if selection, err := s.themes.Select(c.QueryParam(QueryTheme), c.QueryParam(QueryVariant)); err == nil {
		page.Theme = vanilla.RendererConfig(selection)
	} else {
		s.logger.Debug("theme selection failed", zap.Error(err))
	}

	body, err := renderer.Render(c.Request().Context(), page)
	if err != nil {
		s.logger.Error("render page failed", zap.String("renderer", renderer.Name()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "render failed")
	}
	return c.Blob(status, renderer.ContentType(), body)
}

// formAction posts back to the wizard route, keeping the presentation query.
func (s *Server) formAction(c echo.Context) string {
	query := url.Values{}
	for _, key := range []string{QueryFormat, QueryTheme, QueryVariant} {
		if v := strings.TrimSpace(c.QueryParam(key)); v != "" {
			query.Set(key, v)
		}
	}
	if len(query) == 0 {
		return RouteWizard
	}
	return RouteWizard + "?" + query.Encode()
}

func (s *Server) recordNavigation(action string, accepted bool) {
	if s.metrics != nil {
		s.metrics.RecordNavigation(action, accepted)
	}
}

// HealthStatus is the health route response.
type HealthStatus struct {
	Status     string                  `json:"status"`
	Wizard     string                  `json:"wizard"`
	Uptime     string                  `json:"uptime"`
	Checks     map[string]*CheckResult `json:"checks"`
	ReportedAt time.Time               `json:"reported_at"`
}

// CheckResult is one dependency check.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	status := &HealthStatus{
		Status:     "healthy",
		Wizard:     s.def.Name,
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Checks:     make(map[string]*CheckResult),
		ReportedAt: time.Now(),
	}

	if s.store != nil {
		start := time.Now()
		err := s.store.Ping(c.Request().Context())
		latency := time.Since(start)
		if err != nil {
			status.Status = "unhealthy"
			status.Checks["cache"] = &CheckResult{Status: "unhealthy", Message: err.Error()}
		} else {
			status.Checks["cache"] = &CheckResult{Status: "healthy", Latency: latency.String()}
		}
	}

	httpStatus := http.StatusOK
	if status.Status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	return c.JSON(httpStatus, status)
}
