package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccline/ccline/internal/quota"
)

func defaultStyles() map[quota.TrackedModel]Style {
	styles := make(map[quota.TrackedModel]Style)
	for _, m := range quota.AllTracked() {
		styles[m] = DefaultStyle(m)
	}
	return styles
}

func TestFormatQuotas(t *testing.T) {
	averages := map[quota.TrackedModel]float64{
		quota.ModelOpus:         0.7,
		quota.ModelGemini3Flash: 0.5,
	}

	got := FormatQuotas(averages, defaultStyles(), " | ")
	want := "\x1b[38;5;214mopus:70%\x1b[39m | \x1b[38;5;45m3flash:50%\x1b[39m"
	assert.Equal(t, want, got)
}

func TestFormatQuotasFixedOrder(t *testing.T) {
	// Map iteration order must not leak into the output.
	averages := map[quota.TrackedModel]float64{
		quota.ModelGemini3Flash: 0.1,
		quota.ModelGemini3Pro:   0.2,
		quota.ModelOpus:         0.3,
	}

	got := FormatQuotas(averages, defaultStyles(), "/")
	want := "\x1b[38;5;214mopus:30%\x1b[39m/\x1b[38;5;129m3pro:20%\x1b[39m/\x1b[38;5;45m3flash:10%\x1b[39m"
	assert.Equal(t, want, got)
}

func TestFormatQuotasSkipsAbsentModels(t *testing.T) {
	averages := map[quota.TrackedModel]float64{quota.ModelGemini3Pro: 1.0}

	got := FormatQuotas(averages, defaultStyles(), " | ")
	assert.Equal(t, "\x1b[38;5;129m3pro:100%\x1b[39m", got)
	assert.NotContains(t, got, "opus")
	assert.NotContains(t, got, " | ")
}

func TestFormatQuotasEmpty(t *testing.T) {
	assert.Empty(t, FormatQuotas(nil, defaultStyles(), " | "))
}

func TestFormatQuotasRoundingAndClamping(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want string
	}{
		{name: "rounds up", avg: 0.708, want: "opus:71%"},
		{name: "rounds down", avg: 0.703, want: "opus:70%"},
		{name: "clamps below zero", avg: -0.2, want: "opus:0%"},
		{name: "clamps above one", avg: 1.3, want: "opus:100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styles := map[quota.TrackedModel]Style{
				quota.ModelOpus: {Alias: "opus", Color: Color256(214)},
			}
			got := FormatQuotas(map[quota.TrackedModel]float64{quota.ModelOpus: tt.avg}, styles, " | ")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFormatQuotasCustomStyles(t *testing.T) {
	styles := map[quota.TrackedModel]Style{
		quota.ModelOpus: {Alias: "claude", Color: RGB(200, 100, 50)},
	}
	got := FormatQuotas(map[quota.TrackedModel]float64{quota.ModelOpus: 0.5}, styles, " | ")
	assert.Equal(t, "\x1b[38;2;200;100;50mclaude:50%\x1b[39m", got)
}

func TestFormatQuotasFallsBackToDefaultStyle(t *testing.T) {
	// A model missing from the styles map still renders with defaults.
	got := FormatQuotas(map[quota.TrackedModel]float64{quota.ModelOpus: 0.5}, nil, " | ")
	assert.Equal(t, "\x1b[38;5;214mopus:50%\x1b[39m", got)
}
