package view

import (
	"math"
	"strconv"
	"strings"
)

// luminanceThreshold splits backgrounds into "needs dark text" and "needs
// light text" against the WCAG relative luminance formula.
const luminanceThreshold = 0.55

// TextColorForBackground picks a readable text color for a hex background.
// 3-digit hex is expanded; anything unparsable falls back to the dark text
// color.
func TextColorForBackground(hexColor string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(hex) == 3 {
		var b strings.Builder
		for _, ch := range hex {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		hex = b.String()
	}
	if len(hex) != 6 {
		return darkText
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return darkText
	}

	r := float64((value>>16)&0xff) / 255
	g := float64((value>>8)&0xff) / 255
	b := float64(value&0xff) / 255

	luminance := 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
	if luminance > luminanceThreshold {
		return darkText
	}
	return lightText
}

func linearize(channel float64) float64 {
	if channel <= 0.03928 {
		return channel / 12.92
	}
	return math.Pow((channel+0.055)/1.055, 2.4)
}
