package render

import (
	"fmt"

	"github.com/ccline/ccline/internal/quota"
)

type colorMode int

const (
	mode16 colorMode = iota
	mode256
	modeRGB
)

// Color is a terminal foreground color in one of three forms: a 4-bit
// palette index, an 8-bit palette index, or an explicit RGB triple.
type Color struct {
	mode    colorMode
	index   uint8
	r, g, b uint8
}

// Color16 returns a 4-bit palette color (0-15).
func Color16(n uint8) Color {
	return Color{mode: mode16, index: n}
}

// Color256 returns an 8-bit palette color (0-255).
func Color256(n uint8) Color {
	return Color{mode: mode256, index: n}
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{mode: modeRGB, r: r, g: g, b: b}
}

// foregroundPrefix lowers the color to its escape sequence. The 4-bit
// form maps indexes 0-7 to 30-37 and 8-15 to the bright range 90-97.
func (c Color) foregroundPrefix() string {
	switch c.mode {
	case mode16:
		code := 30 + int(c.index)
		if c.index >= 8 {
			code = 90 + int(c.index-8)
		}
		return fmt.Sprintf("\x1b[%dm", code)
	case mode256:
		return fmt.Sprintf("\x1b[38;5;%dm", c.index)
	default:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.r, c.g, c.b)
	}
}

// ApplyForeground wraps text in the color's escape sequence, resetting
// only the foreground attribute (39m) so surrounding background
// styling survives.
func ApplyForeground(text string, c Color) string {
	return c.foregroundPrefix() + text + "\x1b[39m"
}

// DefaultColor returns the built-in foreground color for a tracked
// model.
func DefaultColor(m quota.TrackedModel) Color {
	switch m {
	case quota.ModelOpus:
		return Color256(214)
	case quota.ModelGemini3Pro:
		return Color256(129)
	default:
		return Color256(45)
	}
}

// ParseColor converts a loosely-typed option value into a Color.
// Accepted forms: {"c16": n}, {"c256": n}, {"r": n, "g": n, "b": n},
// or a bare integer treated as an 8-bit palette index.
func ParseColor(value any) (Color, error) {
	switch v := value.(type) {
	case map[string]any:
		return parseColorMap(v)
	case int, int64, uint64, float64:
		n, err := colorComponent(v, 255)
		if err != nil {
			return Color{}, err
		}
		return Color256(n), nil
	}
	return Color{}, fmt.Errorf("unsupported color value %v", value)
}

func parseColorMap(m map[string]any) (Color, error) {
	if v, ok := m["c16"]; ok {
		n, err := colorComponent(v, 15)
		if err != nil {
			return Color{}, err
		}
		return Color16(n), nil
	}
	if v, ok := m["c256"]; ok {
		n, err := colorComponent(v, 255)
		if err != nil {
			return Color{}, err
		}
		return Color256(n), nil
	}
	if _, ok := m["r"]; ok {
		r, err := colorComponent(m["r"], 255)
		if err != nil {
			return Color{}, err
		}
		g, err := colorComponent(m["g"], 255)
		if err != nil {
			return Color{}, err
		}
		b, err := colorComponent(m["b"], 255)
		if err != nil {
			return Color{}, err
		}
		return RGB(r, g, b), nil
	}
	return Color{}, fmt.Errorf("unrecognized color form %v", m)
}

func colorComponent(value any, max int) (uint8, error) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case uint64:
		n = int(v)
	case float64:
		n = int(v)
		if float64(n) != v {
			return 0, fmt.Errorf("color component %v is not an integer", v)
		}
	default:
		return 0, fmt.Errorf("color component %v is not a number", value)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("color component %d out of range [0,%d]", n, max)
	}
	return uint8(n), nil
}
