// Package theme derives workspace color themes from an image palette.
// Given a handful of dominant colors it proposes dark, light and
// vibrant themes, assigning background, accent and secondary roles by
// contrast against the chosen background.
package theme

import (
	"fmt"
	"math"
	"sort"
)

// RGB is an 8-bit color triple as extracted from an image palette.
type RGB struct {
	R, G, B uint8
}

// HSL components: H in degrees, S and L in [0,1].
type HSL struct {
	H, S, L float64
}

type shade struct {
	hex string
	hsl HSL
}

// Hex formats the color as an uppercase #RRGGBB string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HSL converts the color to hue, saturation and lightness.
func (c RGB) HSL() HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	h, s := 0.0, 0.0
	l := (max + min) / 2
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		case b:
			h = (r-g)/d + 4
		}
		h /= 6
	}
	return HSL{H: h * 360, S: s, L: l}
}

// luminance is the perceptual brightness of a #RRGGBB string in 0..255.
func luminance(hex string) float64 {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return 0
	}
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// contrast scores how visually distinct two colors are, combining
// relative luminance ratio with lightness and saturation deltas.
func contrast(a, b shade) float64 {
	la, lb := luminance(a.hex), luminance(b.hex)
	ratio := (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05)
	deltaL := math.Abs(a.hsl.L-b.hsl.L) * 100
	deltaS := math.Abs(a.hsl.S-b.hsl.S) * 100
	return ratio*5 + deltaL + deltaS*0.5
}

// createTheme builds a full theme around bg, picking the accent as the
// most contrasting saturated color and the secondary as the next most
// contrasting one. Returns nil when the palette leaves fewer than two
// other colors to assign.
func createTheme(name string, bg shade, all []shade) map[string]any {
	remaining := make([]shade, 0, len(all))
	for _, c := range all {
		if c.hex != bg.hex {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) < 2 {
		return nil
	}

	accents := append([]shade(nil), remaining...)
	sort.SliceStable(accents, func(i, j int) bool {
		return contrast(accents[i], bg)*accents[i].hsl.S > contrast(accents[j], bg)*accents[j].hsl.S
	})
	accent := accents[0]

	rest := make([]shade, 0, len(remaining))
	for _, c := range remaining {
		if c.hex != accent.hex {
			rest = append(rest, c)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return contrast(rest[i], bg) > contrast(rest[j], bg)
	})
	secondary := rest[0]

	darkBg := luminance(bg.hex) < 128
	textColor := "#1D1D1F"
	mutedText := "rgba(0, 0, 0, 0.55)"
	inputBg := "rgba(0, 0, 0, 0.05)"
	borderColor := "rgba(0, 0, 0, 0.1)"
	appBg := "#F0F2F5"
	if darkBg {
		textColor = "#FFFFFF"
		mutedText = "rgba(255, 255, 255, 0.65)"
		inputBg = "rgba(255, 255, 255, 0.1)"
		borderColor = "rgba(255, 255, 255, 0.15)"
		appBg = "#121212"
	}

	return map[string]any{
		"name":             name,
		"appBg":            appBg,
		"headerTitleColor": textColor,
		"borderColor":      borderColor,
		"sidebarBg":        bg.hex,
		"headerBg":         bg.hex,
		"footerBg":         bg.hex,
		"chatBg":           bg.hex,
		"buttonBg":         accent.hex,
		"bubbleMeBg":       accent.hex,
		"nameMeColor":      accent.hex,
		"bubbleOtherBg":    secondary.hex,
		"textColor":        textColor,
		"nameOtherColor":   mutedText,
		"sidebarInputBg":   inputBg,
		"inputBg":          inputBg,
	}
}

// GenerateFromPalette proposes up to three themes from the dominant
// palette: darkest background, lightest background and most saturated
// background. Candidates sharing a background are deduplicated, so a
// palette can legitimately yield fewer than three themes. Palettes with
// fewer than three colors yield none.
func GenerateFromPalette(palette []RGB) []map[string]any {
	if len(palette) < 3 {
		return nil
	}
	colors := make([]shade, len(palette))
	for i, c := range palette {
		colors[i] = shade{hex: c.Hex(), hsl: c.HSL()}
	}

	byLightness := append([]shade(nil), colors...)
	sort.SliceStable(byLightness, func(i, j int) bool {
		return byLightness[i].hsl.L < byLightness[j].hsl.L
	})
	bySaturation := append([]shade(nil), colors...)
	sort.SliceStable(bySaturation, func(i, j int) bool {
		return bySaturation[i].hsl.S > bySaturation[j].hsl.S
	})

	candidates := []map[string]any{
		createTheme("다크 테마", byLightness[0], colors),
		createTheme("라이트 테마", byLightness[len(byLightness)-1], colors),
		createTheme("컬러풀 테마", bySaturation[0], colors),
	}

	seen := map[string]bool{}
	themes := make([]map[string]any, 0, len(candidates))
	for _, t := range candidates {
		if t == nil {
			continue
		}
		bg := t["sidebarBg"].(string)
		if seen[bg] {
			continue
		}
		seen[bg] = true
		themes = append(themes, t)
	}
	return themes
}
