package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestDefinitionSource(t *testing.T) {
	c := config.Default()
	assert.True(t, definitionSource(c).Embedded())

	c.Definition.OpenAPI = "api.yaml"
	c.Definition.Operation = "predictPrice"
	assert.Equal(t, "openapi:api.yaml#predictPrice", definitionSource(c).String())

	c.Definition.Path = "wizard.yaml"
	assert.Equal(t, "file:wizard.yaml", definitionSource(c).String())
}

func TestConstraint(t *testing.T) {
	lo, hi := 2.0, 64.0
	assert.Equal(t, "[2, 64]", constraint(model.Field{Kind: model.FieldKindNumber, Min: &lo, Max: &hi}))
	assert.Equal(t, "-", constraint(model.Field{Kind: model.FieldKindNumber}))
	assert.Equal(t, "0|1", constraint(model.Field{Kind: model.FieldKindSelect, Options: []model.Option{{Value: "0"}, {Value: "1"}}}))
	assert.Equal(t, "-", constraint(model.Field{Kind: model.FieldKindText}))
}

func TestFieldsAndRenderCommands(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"fields", "--env-file", "testdata/none.env"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "scres_is_touchscreen")
	assert.Contains(t, out.String(), "[2, 64]")

	out.Reset()
	rootCmd.SetArgs([]string{"render", "--env-file", "testdata/none.env", "--step", "2", "--format", "text", "--set", "ram=128", "--validate"})
	require.NoError(t, rootCmd.Execute())
	text := out.String()
	assert.Contains(t, text, "Paso 2 de 3")
	assert.Contains(t, text, "128")
}
