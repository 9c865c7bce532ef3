package chart

import (
	"fmt"
	"math"

	"github.com/dnldd/chartboard/shared"
	"github.com/wcharczuk/go-chart/v2"
)

// CandlestickSeries draws open/high/low/close records as wicks and bodies.
// Records are placed on the x axis by index.
type CandlestickSeries struct {
	Name   string
	Style  chart.Style
	YAxis  chart.YAxisType
	Points []shared.OHLCPoint
}

// Ensure the candlestick series can be drawn and ranged by go-chart.
var (
	_ chart.Series                = (*CandlestickSeries)(nil)
	_ chart.BoundedValuesProvider = (*CandlestickSeries)(nil)
)

// GetName returns the name of the series.
func (cs CandlestickSeries) GetName() string {
	return cs.Name
}

// GetStyle returns the series style.
func (cs CandlestickSeries) GetStyle() chart.Style {
	return cs.Style
}

// GetYAxis returns the axis the series is drawn against.
func (cs CandlestickSeries) GetYAxis() chart.YAxisType {
	return cs.YAxis
}

// Len returns the number of records.
func (cs CandlestickSeries) Len() int {
	return len(cs.Points)
}

// GetBoundedValues returns the x position and the low/high bounds of a record.
func (cs CandlestickSeries) GetBoundedValues(index int) (x, y1, y2 float64) {
	point := cs.Points[index]
	return float64(index), point.L, point.H
}

// Validate asserts the series can be drawn.
func (cs CandlestickSeries) Validate() error {
	if len(cs.Points) == 0 {
		return fmt.Errorf("candlestick series %q has no records", cs.Name)
	}

	return nil
}

// finite returns whether every price of the record is a real number.
func finite(point shared.OHLCPoint) bool {
	for _, v := range []float64{point.O, point.H, point.L, point.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// candleColor returns the colour of a record based on its direction.
func candleColor(point shared.OHLCPoint) chart.Style {
	color := unchangedColor
	switch {
	case point.C > point.O:
		color = upColor
	case point.C < point.O:
		color = downColor
	}

	return chart.Style{StrokeColor: color, FillColor: color, StrokeWidth: 1}
}

// Render draws the series.
func (cs CandlestickSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	if len(cs.Points) == 0 {
		return
	}

	halfWidth := canvasBox.Width() / (len(cs.Points) * 4)
	if halfWidth < 1 {
		halfWidth = 1
	}

	for idx := range cs.Points {
		point := cs.Points[idx]
		if !finite(point) {
			continue
		}

		style := candleColor(point)
		x := canvasBox.Left + xrange.Translate(float64(idx))
		high := canvasBox.Bottom - yrange.Translate(point.H)
		low := canvasBox.Bottom - yrange.Translate(point.L)

		r.SetStrokeColor(style.StrokeColor)
		r.SetStrokeWidth(style.StrokeWidth)
		r.MoveTo(x, high)
		r.LineTo(x, low)
		r.Stroke()

		top := canvasBox.Bottom - yrange.Translate(math.Max(point.O, point.C))
		bottom := canvasBox.Bottom - yrange.Translate(math.Min(point.O, point.C))
		if bottom-top < 1 {
			bottom = top + 1
		}

		r.SetStrokeColor(style.StrokeColor)
		r.SetFillColor(style.FillColor)
		r.SetStrokeWidth(style.StrokeWidth)
		r.MoveTo(x-halfWidth, top)
		r.LineTo(x+halfWidth, top)
		r.LineTo(x+halfWidth, bottom)
		r.LineTo(x-halfWidth, bottom)
		r.Close()
		r.FillStroke()
	}
}
