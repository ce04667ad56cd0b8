package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/internal/metrics"
	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/cache"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

type failingStore struct{ cache.Store }

func (failingStore) Ping(context.Context) error { return errors.New("connection refused") }

func newServer(t *testing.T, options ...server.Option) *server.Server {
	t.Helper()
	srv, err := server.New(testsupport.LaptopDefinition(t), options...)
	require.NoError(t, err)
	return srv
}

func postWizard(t *testing.T, srv http.Handler, target string, values model.Snapshot, step int, action string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	for key, value := range values {
		form.Set(key, value)
	}
	form.Set("_step", strconv.Itoa(step))
	form.Set("_action", action)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.10:5000"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexRendersFirstStep(t *testing.T) {
	srv := newServer(t)

	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `class="form-step active" data-step="1"`)
	assert.Contains(t, body, `id="progressFill" style="width: 0%"`)
	assert.Contains(t, body, `action="/wizard"`)
	assert.Contains(t, body, `value="next">`, "next stays enabled without client-side validation")
	assert.Contains(t, body, `href="/assets/formwizard.css"`)
}

func TestNextRejectsInvalidStep(t *testing.T) {
	srv := newServer(t)
	values := testsupport.LaptopValues()
	values["weight"] = "9"

	rec := postWizard(t, srv, "/wizard", values, 1, "next")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="form-step active" data-step="1"`)
	assert.Contains(t, body, `class="input-group error"`)
	assert.Contains(t, body, `value="9"`)
}

func TestNextAndPrevNavigate(t *testing.T) {
	srv := newServer(t)
	values := testsupport.LaptopValues()

	rec := postWizard(t, srv, "/wizard", values, 1, "next")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="form-step active" data-step="2"`)
	assert.Contains(t, rec.Body.String(), `style="width: 50%"`)
	assert.NotContains(t, rec.Body.String(), `class="input-group error"`)

	rec = postWizard(t, srv, "/wizard", model.Snapshot{}, 2, "prev")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="form-step active" data-step="1"`)
}

func TestStepIsClamped(t *testing.T) {
	srv := newServer(t)

	rec := postWizard(t, srv, "/wizard", model.Snapshot{}, 42, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="form-step active" data-step="3"`)
	assert.Contains(t, rec.Body.String(), `value="submit"`)
}

func TestSubmitSuccess(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusOK, `{"prediction": 1234.5}`)
	m := metrics.New()
	srv := newServer(t,
		server.WithPredictor(server.NewPredictor(server.PredictorConfig{Endpoint: upstream.URL, Timeout: time.Second}, nil)),
		server.WithMetrics(m),
	)

	rec := postWizard(t, srv, "/wizard", testsupport.LaptopValues(), 3, "submit")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<p class="price-amount" id="priceAmount">€1234.50</p>`)
	assert.Contains(t, body, `id="errorDisplay" hidden`)
	assert.Contains(t, body, `id="loadingDisplay" hidden`)
	assert.Contains(t, body, "CPU FREQUENCY")

	forms := upstream.Forms()
	require.Len(t, forms, 1)
	assert.Len(t, forms[0], 17)
	assert.Equal(t, "16", forms[0].Get("ram"))

	metricsBody := get(srv, "/metrics").Body.String()
	assert.Contains(t, metricsBody, `formwizard_submission_requests_total{status="success"} 1`)
}

func TestSubmitServerError(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusBadRequest, `{"error": "invalid input"}`)
	srv := newServer(t, server.WithPredictor(server.NewPredictor(server.PredictorConfig{Endpoint: upstream.URL}, nil)))

	rec := postWizard(t, srv, "/wizard", testsupport.LaptopValues(), 3, "submit")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<p id="errorMessage">invalid input</p>`)
	assert.Contains(t, body, `id="priceDisplay" hidden`)
}

func TestSubmitConnectionRefused(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusOK, `{}`)
	endpoint := upstream.URL
	upstream.Close()
	srv := newServer(t, server.WithPredictor(server.NewPredictor(server.PredictorConfig{Endpoint: endpoint}, nil)))

	rec := postWizard(t, srv, "/wizard", testsupport.LaptopValues(), 3, "submit")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.DefaultConnectionErrorMessage)
	assert.Contains(t, rec.Body.String(), `id="loadingDisplay" hidden`)
}

func TestSubmitInvalidFinalStep(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusOK, `{"prediction": 1}`)
	srv := newServer(t, server.WithPredictor(server.NewPredictor(server.PredictorConfig{Endpoint: upstream.URL}, nil)))
	values := testsupport.LaptopValues()
	values["scres_x"] = "100"

	rec := postWizard(t, srv, "/wizard", values, 3, "submit")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), model.DefaultInvalidFormMessage)
	assert.Contains(t, rec.Body.String(), `class="input-group error"`)
	assert.Empty(t, upstream.Forms())
}

func TestSubmitRateLimited(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusOK, `{"prediction": 999}`)
	limiter := server.NewRateLimiter(1, time.Hour)
	m := metrics.New()
	srv := newServer(t,
		server.WithPredictor(server.NewPredictor(server.PredictorConfig{Endpoint: upstream.URL}, nil)),
		server.WithRateLimiter(limiter),
		server.WithMetrics(m),
	)
	t.Cleanup(limiter.Stop)

	first := postWizard(t, srv, "/wizard", testsupport.LaptopValues(), 3, "submit")
	second := postWizard(t, srv, "/wizard", testsupport.LaptopValues(), 3, "submit")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), server.RateLimitedMessage)
	assert.Len(t, upstream.Forms(), 1)
}

func TestTextFormatAndThemeQuery(t *testing.T) {
	srv := newServer(t)

	rec := get(srv, "/?format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Paso 1 de 3")

	rec = get(srv, "/?variant=dark&theme=formwizard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-variant="dark"`)
	assert.Contains(t, rec.Body.String(), `action="/wizard?theme=formwizard&amp;variant=dark"`)

	rec = get(srv, "/?format=pdf")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestCSRFGuardsWizardPosts(t *testing.T) {
	srv := newServer(t, server.WithCSRF(true))

	index := get(srv, "/")
	require.Equal(t, http.StatusOK, index.Code)
	var cookie *http.Cookie
	for _, c := range index.Result().Cookies() {
		if c.Name == server.FieldCSRF {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "index must set the csrf cookie")
	require.NotEmpty(t, cookie.Value)
	assert.Contains(t, index.Body.String(), `<input type="hidden" name="_csrf" value="`+cookie.Value+`">`)

	post := func(token string) *httptest.ResponseRecorder {
		form := url.Values{}
		for key, value := range testsupport.LaptopValues() {
			form.Set(key, value)
		}
		form.Set("_step", "1")
		form.Set("_action", "next")
		if token != "" {
			form.Set(server.FieldCSRF, token)
		}
		req := httptest.NewRequest(http.MethodPost, "/wizard", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	accepted := post(cookie.Value)
	assert.Equal(t, http.StatusOK, accepted.Code)
	assert.Contains(t, accepted.Body.String(), `class="form-step active" data-step="2"`)
	assert.Contains(t, accepted.Body.String(), `name="_csrf" value="`+cookie.Value+`"`)

	assert.Equal(t, http.StatusBadRequest, post("").Code)
	assert.Equal(t, http.StatusForbidden, post("forged").Code)
}

func TestCSRFDisabledByDefault(t *testing.T) {
	srv := newServer(t)

	rec := get(srv, "/")

	assert.Empty(t, rec.Result().Cookies())
	assert.NotContains(t, rec.Body.String(), `name="_csrf"`)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, server.WithCache(cache.NewMemory()))
	rec := get(srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	srv = newServer(t, server.WithCache(failingStore{}))
	rec = get(srv, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestAssetsServed(t *testing.T) {
	srv := newServer(t)

	rec := get(srv, "/assets/formwizard.css")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".form-step")
}
