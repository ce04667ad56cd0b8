package submission

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// SummaryItem is one label/value pair of the success summary. Values are raw;
// escaping belongs to the renderer.
type SummaryItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Payload serialises every field of every step, including empty ones, the way
// a browser serialises the whole form.
func Payload(def model.Definition, values model.Snapshot) url.Values {
	out := make(url.Values)
	for _, field := range def.Fields() {
		out.Set(field.ID, values.Value(field.ID))
	}
	return out
}

// Summary lists every non-empty submitted field in definition order.
func Summary(def model.Definition, values model.Snapshot) []SummaryItem {
	var items []SummaryItem
	for _, field := range def.Fields() {
		value := values.Value(field.ID)
		if value == "" {
			continue
		}
		items = append(items, SummaryItem{
			Name:  field.ID,
			Label: model.HumanizeName(field.ID),
			Value: value,
		})
	}
	return items
}

// FormatAmount renders a prediction as a Euro amount with two decimals.
func FormatAmount(prediction float64) string {
	return fmt.Sprintf("€%.2f", prediction)
}
