package quota

import (
	"strings"
	"unicode"
)

// TrackedModel identifies one of the fixed set of models the segment
// displays. The set is closed: anything that does not classify is
// dropped before it reaches aggregation or the cache consumer.
type TrackedModel int

const (
	ModelOpus TrackedModel = iota
	ModelGemini3Pro
	ModelGemini3Flash
)

type trackedModelInfo struct {
	aliasKey     string
	colorKey     string
	defaultAlias string
	displayName  string
}

var trackedModels = [...]trackedModelInfo{
	ModelOpus:         {aliasKey: "opus_alias", colorKey: "opus_color", defaultAlias: "opus", displayName: "Opus"},
	ModelGemini3Pro:   {aliasKey: "gemini3pro_alias", colorKey: "gemini3pro_color", defaultAlias: "3pro", displayName: "Gemini 3 Pro"},
	ModelGemini3Flash: {aliasKey: "gemini3flash_alias", colorKey: "gemini3flash_color", defaultAlias: "3flash", displayName: "Gemini 3 Flash"},
}

// AllTracked returns every tracked model in display order.
func AllTracked() []TrackedModel {
	return []TrackedModel{ModelOpus, ModelGemini3Pro, ModelGemini3Flash}
}

// AliasKey returns the options-map key overriding the display alias.
func (m TrackedModel) AliasKey() string { return trackedModels[m].aliasKey }

// ColorKey returns the options-map key overriding the display color.
func (m TrackedModel) ColorKey() string { return trackedModels[m].colorKey }

// DefaultAlias returns the short alias used when no override is set.
func (m TrackedModel) DefaultAlias() string { return trackedModels[m].defaultAlias }

// DisplayName returns the human-readable model name.
func (m TrackedModel) DisplayName() string { return trackedModels[m].displayName }

func (m TrackedModel) String() string { return trackedModels[m].displayName }

// Classify maps a raw model identifier and display name to a tracked
// model. Matching is substring-based and case-insensitive after
// normalization; either field matching is sufficient. Priority is
// fixed: opus, then gemini-3-pro, then gemini-3-flash.
func Classify(modelID, displayName string) (TrackedModel, bool) {
	id := normalizeModelText(modelID)
	name := normalizeModelText(displayName)

	switch {
	case strings.Contains(id, "opus") || strings.Contains(name, "opus"):
		return ModelOpus, true
	case strings.Contains(id, "gemini-3-pro") || strings.Contains(name, "gemini 3 pro"):
		return ModelGemini3Pro, true
	case strings.Contains(id, "gemini-3-flash") || strings.Contains(name, "gemini 3 flash"):
		return ModelGemini3Flash, true
	}
	return 0, false
}

// normalizeModelText lowercases, trims, and strips a trailing
// "-preview" / " preview" suffix so preview variants classify the same
// as their base model.
func normalizeModelText(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, suffix := range []string{"-preview", " preview"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimRightFunc(s[:len(s)-len(suffix)], unicode.IsSpace)
		}
	}
	return s
}
