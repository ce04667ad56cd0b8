package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Status is a state of the submission state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

var (
	// ErrInFlight is returned when Submit is called while a request is
	// already loading.
	ErrInFlight = errors.New("submission: request already in flight")
	// ErrInvalidForm is returned when the final step fails validation. No
	// request is issued and the handler stays idle.
	ErrInvalidForm = errors.New("submission: final step is invalid")
)

// Outcome is what a front-end renders after a submission attempt.
type Outcome struct {
	ID         string            `json:"id,omitempty"`
	Status     Status            `json:"status"`
	Prediction float64           `json:"prediction,omitempty"`
	Amount     string            `json:"amount,omitempty"`
	Message    string            `json:"message,omitempty"`
	Summary    []SummaryItem     `json:"summary,omitempty"`
	Alert      string            `json:"alert,omitempty"`
	Validation validation.Result `json:"validation"`
}

// Visible reports which outcome region a renderer shows. At most one of
// loading/success/failure is true.
func (o Outcome) Visible() (loading, success, failure bool) {
	switch o.Status {
	case StatusLoading:
		return true, false, false
	case StatusSuccess:
		return false, true, false
	case StatusFailure:
		return false, false, true
	default:
		return false, false, false
	}
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger routes submission traces to logger.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver is notified on every status transition, outside the lock.
func WithObserver(fn func(Status)) HandlerOption {
	return func(h *Handler) {
		h.observer = fn
	}
}

// WithRecorder receives the final status and request duration of every
// issued request.
func WithRecorder(fn func(Status, time.Duration)) HandlerOption {
	return func(h *Handler) {
		h.recorder = fn
	}
}

// Handler drives the Idle -> Loading -> Success|Failure state machine for one
// wizard session.
type Handler struct {
	mu        sync.Mutex
	status    Status
	last      Outcome
	def       model.Definition
	messages  model.Messages
	predictor Predictor
	logger    *zap.Logger
	observer  func(Status)
	recorder  func(Status, time.Duration)
}

// NewHandler builds an idle handler submitting def's fields through predictor.
func NewHandler(def model.Definition, predictor Predictor, options ...HandlerOption) *Handler {
	h := &Handler{
		status:    StatusIdle,
		def:       def,
		messages:  def.Messages.WithDefaults(),
		predictor: predictor,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	h.last = Outcome{Status: StatusIdle}
	return h
}

// Status reports the current state.
func (h *Handler) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Busy reports whether a request is in flight. Front-ends disable the submit
// control while it returns true.
func (h *Handler) Busy() bool {
	return h.Status() == StatusLoading
}

// Outcome returns the most recent outcome.
func (h *Handler) Outcome() Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Submit re-validates the final step and, when it passes, posts every field
// to the predictor. Server-reported and transport failures are outcomes, not
// errors: the returned error is only ErrInFlight or ErrInvalidForm.
func (h *Handler) Submit(ctx context.Context, values model.Snapshot) (Outcome, error) {
	final, _ := h.def.Step(h.def.TotalSteps())
	res := validation.Validate(final, values)

	h.mu.Lock()
	if h.status == StatusLoading {
		h.mu.Unlock()
		return Outcome{Status: StatusLoading}, ErrInFlight
	}
	if !res.Valid {
		h.status = StatusIdle
		h.last = Outcome{Status: StatusIdle, Alert: h.messages.InvalidForm, Validation: res}
		out := h.last
		h.mu.Unlock()
		h.logger.Info("submission blocked by validation", zap.Strings("invalid", res.Invalid()))
		h.notify(StatusIdle)
		return out, ErrInvalidForm
	}
	id := uuid.NewString()
	h.status = StatusLoading
	h.last = Outcome{ID: id, Status: StatusLoading, Message: h.messages.Loading}
	h.mu.Unlock()
	h.notify(StatusLoading)

	payload := Payload(h.def, values)
	h.logger.Info("submitting prediction request",
		zap.String("submission", id),
		zap.Int("fields", len(payload)),
	)

	started := time.Now()
	result, err := h.predict(ctx, payload)
	elapsed := time.Since(started)

	out := Outcome{ID: id, Validation: res}
	switch {
	case err == nil && result.Error == "" && result.Prediction == nil:
		err = fmt.Errorf("%w: empty result", ErrTransport)
		fallthrough
	case err != nil:
		h.logger.Warn("prediction request failed", zap.String("submission", id), zap.Error(err))
		out.Status = StatusFailure
		out.Message = h.messages.ConnectionError
	case result.Error != "":
		h.logger.Info("prediction rejected", zap.String("submission", id), zap.String("error", result.Error))
		out.Status = StatusFailure
		out.Message = result.Error
	default:
		out.Status = StatusSuccess
		out.Prediction = *result.Prediction
		out.Amount = FormatAmount(out.Prediction)
		out.Summary = Summary(h.def, values)
		h.logger.Info("prediction succeeded", zap.String("submission", id), zap.Float64("prediction", out.Prediction))
	}

	h.mu.Lock()
	h.status = out.Status
	h.last = out
	h.mu.Unlock()

	if h.recorder != nil {
		h.recorder(out.Status, elapsed)
	}
	h.notify(out.Status)
	return out, nil
}

func (h *Handler) predict(ctx context.Context, payload url.Values) (Result, error) {
	if h.predictor == nil {
		return Result{}, fmt.Errorf("%w: predictor is not configured", ErrTransport)
	}
	return h.predictor.Predict(ctx, payload)
}

func (h *Handler) notify(status Status) {
	if h.observer != nil {
		h.observer(status)
	}
}
