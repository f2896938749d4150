package mapdata

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/logger"
)

// ParseHexColor accepts #rgb, #rgba, #rrggbb and #rrggbbaa, with or without the leading #
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%q is not a valid hex color", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%q is not a valid hex color: %w", s, err)
	}

	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ColorOrBlack parses a hex color, falling back to opaque black with a warning
func ColorOrBlack(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		logger.Warn("using black for invalid color", zap.String("color", s), zap.Error(err))
		return color.NRGBA{A: 0xff}
	}
	return c
}
