package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/ccline/ccline/internal/quota"
)

// Style is the resolved display alias and color for one tracked model.
type Style struct {
	Alias string
	Color Color
}

// DefaultStyle returns the built-in style for a tracked model.
func DefaultStyle(m quota.TrackedModel) Style {
	return Style{Alias: m.DefaultAlias(), Color: DefaultColor(m)}
}

// FormatQuotas renders aggregated averages into "alias:NN%" fragments
// in fixed model order, each wrapped in its foreground color, joined
// by separator. Models absent from the averages are skipped. Percent
// values are rounded and clamped to [0,100].
func FormatQuotas(averages map[quota.TrackedModel]float64, styles map[quota.TrackedModel]Style, separator string) string {
	var parts []string
	for _, model := range quota.AllTracked() {
		avg, ok := averages[model]
		if !ok {
			continue
		}

		percent := int(math.Round(avg * 100))
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		style, ok := styles[model]
		if !ok {
			style = DefaultStyle(model)
		}
		label := fmt.Sprintf("%s:%d%%", style.Alias, percent)
		parts = append(parts, ApplyForeground(label, style.Color))
	}
	return strings.Join(parts, separator)
}
