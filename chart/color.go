package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// Candle colours, matching the usual financial chart defaults.
	upColor        = drawing.Color{R: 80, G: 160, B: 115, A: 255}
	downColor      = drawing.Color{R: 215, G: 85, B: 65, A: 255}
	unchangedColor = drawing.Color{R: 90, G: 90, B: 90, A: 255}

	frameColor    = drawing.Color{R: 0, G: 0, B: 0, A: 26}
	frameFill     = drawing.ColorWhite
	sliceEdge     = drawing.ColorWhite
	sliceFallback = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

// parseColor parses css style rgb(), rgba() and hex colours.
func parseColor(raw string) (drawing.Color, error) {
	str := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(str, "#"):
		return drawing.ColorFromHex(strings.TrimPrefix(str, "#")), nil
	case strings.HasPrefix(str, "rgba(") && strings.HasSuffix(str, ")"):
		return parseComponents(str[len("rgba(") : len(str)-1], 4)
	case strings.HasPrefix(str, "rgb(") && strings.HasSuffix(str, ")"):
		return parseComponents(str[len("rgb(") : len(str)-1], 3)
	default:
		return drawing.Color{}, fmt.Errorf("unsupported colour format: %q", raw)
	}
}

// parseComponents parses the comma separated channels of an rgb(a) colour.
func parseComponents(body string, want int) (drawing.Color, error) {
	parts := strings.Split(body, ",")
	if len(parts) != want {
		return drawing.Color{}, fmt.Errorf("expected %d colour components, got %d", want, len(parts))
	}

	channels := make([]float64, len(parts))
	for idx := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[idx]), 64)
		if err != nil {
			return drawing.Color{}, fmt.Errorf("parsing colour component %d: %w", idx, err)
		}
		channels[idx] = value
	}

	clamp := func(v, max float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(v, max))))
	}

	color := drawing.Color{
		R: clamp(channels[0], 255),
		G: clamp(channels[1], 255),
		B: clamp(channels[2], 255),
		A: 255,
	}
	if want == 4 {
		color.A = clamp(channels[3]*255, 255)
	}

	return color, nil
}

// colorOr parses the provided colour, returning the fallback when it cannot be parsed.
func colorOr(raw string, fallback drawing.Color) drawing.Color {
	if raw == "" {
		return fallback
	}

	color, err := parseColor(raw)
	if err != nil {
		return fallback
	}

	return color
}
