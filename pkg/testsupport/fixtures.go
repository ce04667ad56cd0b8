package testsupport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// MustLoadDefinition loads a JSON or YAML definition fixture.
func MustLoadDefinition(t *testing.T, path string) model.Definition {
	t.Helper()

	def, err := definition.LoadFile(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LaptopDefinition returns the bundled laptop wizard.
func LaptopDefinition(t *testing.T) model.Definition {
	t.Helper()

	def, err := definition.Default()
	if err != nil {
		t.Fatalf("default definition: %v", err)
	}
	return def
}

// LaptopValues is a complete submission that passes every step of the
// bundled laptop wizard.
func LaptopValues() model.Snapshot {
	return model.Snapshot{
		"company":              "Dell",
		"typename":             "Notebook",
		"opsys":                "Windows 10",
		"inches":               "15.6",
		"weight":               "1.8",
		"cpu_type":             "Intel Core i7",
		"cpu_frequency":        "2.8",
		"ram":                  "16",
		"gpu_brand":            "Nvidia",
		"storage_type":         "SSD",
		"ssd_capacity":         "512",
		"hdd_capacity":         "0",
		"flash_capacity":       "0",
		"hybrid_capacity":      "0",
		"scres_x":              "1920",
		"scres_y":              "1080",
		"scres_is_touchscreen": "0",
	}
}

// PredictServer is a fake prediction service that answers every POST with a
// fixed status and body and records the decoded forms it received.
type PredictServer struct {
	*httptest.Server

	mu    sync.Mutex
	forms []url.Values
}

// NewPredictServer starts a PredictServer closed at test cleanup.
func NewPredictServer(t *testing.T, status int, body string) *PredictServer {
	t.Helper()

	ps := &PredictServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err == nil {
			ps.mu.Lock()
			ps.forms = append(ps.forms, r.PostForm)
			ps.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ps.Close)
	return ps
}

// Forms returns the forms received so far.
func (ps *PredictServer) Forms() []url.Values {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]url.Values(nil), ps.forms...)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// string result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
