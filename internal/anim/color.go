package anim

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/arcgauge/internal/model"
)

// ParseColor accepts #rgb, #rrggbb and rgb(r, g, b).
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", model.ErrInvalidColor, s)
		}
		return c, nil
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		parts := strings.Split(lower[4:len(lower)-1], ",")
		if len(parts) == 3 {
			var rgb [3]float64
			for i, part := range parts {
				v, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil || v < 0 || v > 255 {
					return colorful.Color{}, fmt.Errorf("%w: %q", model.ErrInvalidColor, s)
				}
				rgb[i] = float64(v) / 255
			}
			return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
		}
	}
	return colorful.Color{}, fmt.Errorf("%w: %q", model.ErrInvalidColor, s)
}

// FormatColor renders c as #rrggbb.
func FormatColor(c colorful.Color) string {
	return c.Clamped().Hex()
}
