package chart

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// LegendPosition represents where the legend of a chart is drawn.
type LegendPosition int

const (
	LegendTop LegendPosition = iota
	LegendBottom
	LegendLeft
)

// String stringifies the provided legend position.
func (p LegendPosition) String() string {
	switch p {
	case LegendTop:
		return "top"
	case LegendBottom:
		return "bottom"
	case LegendLeft:
		return "left"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p LegendPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParseLegendPosition parses the provided legend position name.
func ParseLegendPosition(name string) (LegendPosition, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top":
		return LegendTop, nil
	case "bottom":
		return LegendBottom, nil
	case "left":
		return LegendLeft, nil
	default:
		return 0, fmt.Errorf("unknown legend position provided: %s", name)
	}
}

// Options represents the rendering options shared by every chart.
type Options struct {
	// Responsive scales the drawing to the width of its container.
	Responsive bool `json:"responsive"`
	// LegendPosition places the legend of every chart.
	LegendPosition LegendPosition `json:"legendPosition"`
	// Width and Height default to DefaultWidth and DefaultHeight.
	Width  int `json:"-"`
	Height int `json:"-"`
}

// DefaultOptions returns the options every dashboard chart is drawn with.
func DefaultOptions() Options {
	return Options{
		Responsive:     true,
		LegendPosition: LegendTop,
	}
}

// withDefaults fills in unset dimensions.
func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}

	return o
}

// legend returns the legend renderable for the provided position.
func legend(ch *chart.Chart, pos LegendPosition) chart.Renderable {
	switch pos {
	case LegendLeft:
		return chart.LegendLeft(ch)
	case LegendBottom:
		return chart.Legend(ch)
	default:
		return chart.LegendThin(ch)
	}
}

const (
	legendMargin   = 8
	legendSwatch   = 10
	legendTextGap  = 4
	legendEntryGap = 12
	legendRowGap   = 6
	legendSpace    = 40
	legendColumn   = 120
)

// legendEntry is one labelled swatch of a swatch legend. Labels are expected
// to be escaped already.
type legendEntry struct {
	Label  string
	Fill   drawing.Color
	Stroke drawing.Color
}

// legendPadding grows the provided padding to leave room for a swatch legend
// at the provided position.
func legendPadding(pos LegendPosition, padding chart.Box) chart.Box {
	switch pos {
	case LegendLeft:
		padding.Left = max(padding.Left, legendColumn)
	case LegendBottom:
		padding.Bottom = max(padding.Bottom, legendSpace)
	default:
		padding.Top = max(padding.Top, legendSpace)
	}

	return padding
}

// swatchLegend returns a legend of coloured swatches for the bar and pie
// charts, which carry no series for the library legends to list. Top and
// bottom legends are a centred row, left legends a column.
func swatchLegend(entries []legendEntry, opts Options) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}

		text := chart.Style{
			FontColor: chart.DefaultTextColor,
			FontSize:  8.0,
		}.InheritFrom(defaults).GetTextOptions()

		x, y := legendMargin, legendMargin
		if opts.LegendPosition == LegendBottom {
			y = opts.Height - legendMargin - legendSwatch
		}

		if opts.LegendPosition != LegendLeft {
			text.WriteToRenderer(r)
			row := 0
			for idx := range entries {
				if idx > 0 {
					row += legendEntryGap
				}
				row += legendSwatch + legendTextGap + r.MeasureText(entries[idx].Label).Width()
			}
			x = max((opts.Width-row)/2, legendMargin)
		}

		for idx := range entries {
			entry := entries[idx]
			chart.Draw.Box(r, chart.Box{
				Top:    y,
				Left:   x,
				Right:  x + legendSwatch,
				Bottom: y + legendSwatch,
			}, chart.Style{FillColor: entry.Fill, StrokeColor: entry.Stroke, StrokeWidth: 1})

			text.WriteToRenderer(r)
			tb := r.MeasureText(entry.Label)
			r.Text(entry.Label, x+legendSwatch+legendTextGap, y+legendSwatch)

			if opts.LegendPosition == LegendLeft {
				y += legendSwatch + legendRowGap
				continue
			}
			x += legendSwatch + legendTextGap + tb.Width() + legendEntryGap
		}
	}
}

var svgDimensions = regexp.MustCompile(`\s(width|height)="[^"]*"`)

// responsive rewrites the root svg element so the drawing scales to its
// container while keeping its aspect ratio.
func responsive(svg []byte, width, height int) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start

	tag := svgDimensions.ReplaceAll(svg[start:end], nil)
	tag = append(tag, []byte(fmt.Sprintf(` viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet" style="width:100%%;height:auto"`,
		width, height))...)

	out := make([]byte, 0, len(svg)+64)
	out = append(out, svg[:start]...)
	out = append(out, tag...)
	out = append(out, svg[end:]...)

	return out
}
