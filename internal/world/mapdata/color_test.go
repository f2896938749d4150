package mapdata

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FFFFFF", color.NRGBA{255, 255, 255, 255}},
		{"#ff5733", color.NRGBA{255, 87, 51, 255}},
		{"#000", color.NRGBA{0, 0, 0, 255}},
		{"#ff573380", color.NRGBA{255, 87, 51, 128}},
		{"#f538", color.NRGBA{255, 85, 51, 136}},
		{"FFFFFF", color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	for _, in := range []string{"invalid", "#12", "#gggggg", ""} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
	if c := ColorOrBlack("invalid"); c != (color.NRGBA{A: 255}) {
		t.Errorf("Expected opaque black fallback, got %v", c)
	}
}
