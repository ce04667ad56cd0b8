package formwizard_test

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"testing"
	"time"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(formwizard.AssetsFS(), "formwizard.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".form-step") {
		t.Fatalf("expected stylesheet to style .form-step")
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(formwizard.EmbeddedTemplates(), "templates/wizard.tmpl"); err != nil {
		t.Fatalf("wizard template: %v", err)
	}
	if _, err := fs.Stat(formwizard.EmbeddedDefinitions(), "defaults/laptop.yaml"); err != nil {
		t.Fatalf("laptop definition: %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := formwizard.GenerateHTML(context.Background(), formwizard.Source{}, 3, testsupport.LaptopValues())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `class="form-step active" data-step="3"`) {
		t.Fatalf("expected step 3 active")
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	upstream := testsupport.NewPredictServer(t, http.StatusOK, `{"prediction": 1234.5}`)
	def, err := formwizard.LoadDefinition(context.Background(), formwizard.Source{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	predictor := formwizard.NewPredictor(upstream.URL, time.Second, nil, 0, nil)

	out, err := formwizard.Submit(context.Background(), def, predictor, testsupport.LaptopValues())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Status != submission.StatusSuccess || out.Amount != "€1234.50" {
		t.Fatalf("outcome = %+v", out)
	}
	if got := formwizard.Payload(def, testsupport.LaptopValues()); len(got) != 17 {
		t.Fatalf("payload fields = %d, want 17", len(got))
	}
}
