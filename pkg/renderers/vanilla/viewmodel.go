package vanilla

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// Template view structs carry only strings and booleans; the engine flattens
// them through JSON and pongo2 truthiness is unreliable for numbers.

type pageView struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Action      string         `json:"action"`
	Hidden      []hiddenView   `json:"hidden"`
	Stylesheet  string         `json:"stylesheet"`
	Inline      string         `json:"inline_styles"`
	ThemeStyle  string         `json:"theme_style"`
	ThemeName   string         `json:"theme_name"`
	Variant     string         `json:"theme_variant"`
	StepLabel   string         `json:"step_label"`
	Progress    string         `json:"progress"`
	Steps       []stepView     `json:"steps"`
	Controls    controlsView   `json:"controls"`
	Outcome     outcomeView    `json:"outcome"`
	Messages    model.Messages `json:"messages"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type stepView struct {
	Index       string      `json:"index"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Active      bool        `json:"active"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Help        string       `json:"help"`
	Unit        string       `json:"unit"`
	Placeholder string       `json:"placeholder"`
	Select      bool         `json:"select"`
	Number      bool         `json:"number"`
	Required    bool         `json:"required"`
	Value       string       `json:"value"`
	Min         string       `json:"min"`
	Max         string       `json:"max"`
	Increment   string       `json:"increment"`
	Invalid     bool         `json:"invalid"`
	Message     string       `json:"message"`
	Options     []optionView `json:"options"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type controlsView struct {
	PrevDisabled   bool `json:"prev_disabled"`
	NextDisabled   bool `json:"next_disabled"`
	SubmitDisabled bool `json:"submit_disabled"`
	ShowNext       bool `json:"show_next"`
	ShowSubmit     bool `json:"show_submit"`
}

type outcomeView struct {
	Loading bool   `json:"loading"`
	Success bool   `json:"success"`
	Failure bool   `json:"failure"`
	Amount  string `json:"amount"`
	// Error and Summary values are sanitised and rendered unescaped.
	Error   string        `json:"error"`
	Summary []summaryView `json:"summary"`
	Alert   string        `json:"alert"`
}

type summaryView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func buildPageView(page render.Page, cfg config) pageView {
	msgs := page.Messages()
	view := page.View

	out := pageView{
		Title:       page.Definition.Title,
		Description: page.Definition.Description,
		Action:      page.Action,
		StepLabel:   fmt.Sprintf("Paso %d de %d", view.Step, view.Total),
		Progress:    view.ProgressWidth,
		Messages:    msgs,
		Controls: controlsView{
			PrevDisabled:   view.Controls.PrevDisabled,
			NextDisabled:   view.Controls.NextDisabled,
			SubmitDisabled: view.Controls.SubmitDisabled,
			ShowNext:       view.Controls.ShowNext,
			ShowSubmit:     view.Controls.ShowSubmit,
		},
	}
	if out.Progress == "" {
		out.Progress = "0%"
	}
	for _, h := range page.StepHidden() {
		out.Hidden = append(out.Hidden, hiddenView{Name: h.Name, Value: h.Value})
	}

	applyTheme(&out, page.Theme, cfg)

	for _, step := range view.Steps {
		sv := stepView{
			Index:       fmt.Sprint(step.Index),
			Title:       step.Title,
			Description: step.Description,
			Active:      step.Active,
		}
		for _, fv := range step.Fields {
			sv.Fields = append(sv.Fields, buildFieldView(fv.Field, fv.Value, fv.Invalid, fv.Message))
		}
		out.Steps = append(out.Steps, sv)
	}

	loading, success, failure := page.Outcome.Visible()
	out.Outcome = outcomeView{
		Loading: loading,
		Success: success,
		Failure: failure,
		Amount:  page.Outcome.Amount,
		Alert:   page.Outcome.Alert,
	}
	if failure {
		out.Outcome.Error = page.Outcome.Message
	}
	if success {
		for _, item := range page.Outcome.Summary {
			out.Outcome.Summary = append(out.Outcome.Summary, summaryView{
				Label: item.Label,
				Value: item.Value,
			})
		}
	}
	return out
}

func buildFieldView(field model.Field, value string, invalid bool, message string) fieldView {
	fv := fieldView{
		ID:          field.ID,
		Label:       field.DisplayLabel(),
		Help:        sanitizeHelp(field.Help),
		Unit:        field.Unit,
		Placeholder: field.Placeholder,
		Select:      field.Kind == model.FieldKindSelect,
		Number:      field.Kind == model.FieldKindNumber,
		Required:    field.Required,
		Value:       value,
		Min:         model.BoundString(field.Min),
		Max:         model.BoundString(field.Max),
		Increment:   field.Increment,
		Invalid:     invalid,
		Message:     message,
	}
	if fv.Number && fv.Increment == "" {
		fv.Increment = "any"
	}
	for _, opt := range field.Options {
		fv.Options = append(fv.Options, optionView{
			Value:    opt.Value,
			Label:    opt.DisplayLabel(),
			Selected: opt.Value == value,
		})
	}
	return fv
}

func applyTheme(out *pageView, cfg *theme.RendererConfig, rc config) {
	out.Stylesheet = rc.stylesheet
	if rc.inlineStyles {
		out.Inline = defaultStylesheet()
	}
	if cfg == nil {
		return
	}
	out.ThemeName = cfg.Theme
	out.Variant = cfg.Variant
	out.ThemeStyle = cssVarsStyle(cfg.CSSVars)
	if out.Stylesheet == "" && cfg.AssetURL != nil {
		out.Stylesheet = cfg.AssetURL(StylesheetKey)
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := strings.TrimSpace(vars[key])
		if value == "" || strings.ContainsAny(value, ";{}<>\"") {
			continue
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
