package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTrackedModels(t *testing.T) {
	tests := []struct {
		name        string
		modelID     string
		displayName string
		want        TrackedModel
		tracked     bool
	}{
		{name: "opus by id", modelID: "claude-opus-4", displayName: "", want: ModelOpus, tracked: true},
		{name: "opus by display name", modelID: "some-model", displayName: "Claude Opus", want: ModelOpus, tracked: true},
		{name: "gemini 3 pro by id", modelID: "gemini-3-pro", displayName: "", want: ModelGemini3Pro, tracked: true},
		{name: "gemini 3 pro by name", modelID: "", displayName: "Gemini 3 Pro", want: ModelGemini3Pro, tracked: true},
		{name: "gemini 3 flash by id", modelID: "gemini-3-flash", displayName: "", want: ModelGemini3Flash, tracked: true},
		{name: "gemini 3 flash by name", modelID: "", displayName: "Gemini 3 Flash", want: ModelGemini3Flash, tracked: true},
		{name: "untracked sonnet", modelID: "claude-sonnet-4-5", displayName: "Claude Sonnet 4.5", tracked: false},
		{name: "untracked gemini 2", modelID: "gemini-2.0-flash", displayName: "Gemini 2.0 Flash", tracked: false},
		{name: "empty inputs", modelID: "", displayName: "", tracked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, ok := Classify(tt.modelID, tt.displayName)
			require.Equal(t, tt.tracked, ok)
			if tt.tracked {
				assert.Equal(t, tt.want, model)
			}
		})
	}
}

func TestClassifyPreviewSuffix(t *testing.T) {
	base, ok := Classify("gemini-3-pro", "")
	require.True(t, ok)

	preview, ok := Classify("gemini-3-pro-preview", "")
	require.True(t, ok)
	assert.Equal(t, base, preview)

	namePreview, ok := Classify("", "Gemini 3 Flash Preview")
	require.True(t, ok)
	assert.Equal(t, ModelGemini3Flash, namePreview)
}

func TestClassifyCaseAndWhitespace(t *testing.T) {
	variants := []string{
		"GEMINI-3-PRO",
		"  gemini-3-pro  ",
		"Gemini-3-Pro-Preview",
		"  GEMINI-3-PRO-PREVIEW  ",
	}
	for _, id := range variants {
		model, ok := Classify(id, "")
		require.True(t, ok, "variant %q", id)
		assert.Equal(t, ModelGemini3Pro, model, "variant %q", id)
	}
}

func TestClassifyNormalizationIdempotent(t *testing.T) {
	inputs := []string{"Claude-Opus-Preview", "GEMINI-3-FLASH ", " gemini 3 pro preview", "plain-model"}
	for _, in := range inputs {
		once := normalizeModelText(in)
		twice := normalizeModelText(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// opus wins over gemini matches regardless of which field carries it
	model, ok := Classify("gemini-3-pro", "Opus Hybrid")
	require.True(t, ok)
	assert.Equal(t, ModelOpus, model)

	model, ok = Classify("opus-via-gemini-3-flash", "")
	require.True(t, ok)
	assert.Equal(t, ModelOpus, model)

	// pro wins over flash
	model, ok = Classify("gemini-3-pro", "Gemini 3 Flash")
	require.True(t, ok)
	assert.Equal(t, ModelGemini3Pro, model)
}

func TestTrackedModelAttributes(t *testing.T) {
	assert.Equal(t, "opus", ModelOpus.DefaultAlias())
	assert.Equal(t, "3pro", ModelGemini3Pro.DefaultAlias())
	assert.Equal(t, "3flash", ModelGemini3Flash.DefaultAlias())

	assert.Equal(t, "opus_alias", ModelOpus.AliasKey())
	assert.Equal(t, "gemini3pro_color", ModelGemini3Pro.ColorKey())
	assert.Equal(t, "Gemini 3 Flash", ModelGemini3Flash.DisplayName())

	assert.Equal(t, []TrackedModel{ModelOpus, ModelGemini3Pro, ModelGemini3Flash}, AllTracked())
}
