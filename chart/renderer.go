// Package chart draws chart-ready datasets as SVG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"sync"

	"github.com/dnldd/chartboard/shared"
	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	// DefaultWidth is the drawing width in pixels.
	DefaultWidth = 600
	// DefaultHeight is the drawing height in pixels.
	DefaultHeight = 400
)

// errUndrawable is returned by drawers given data they cannot plot.
var errUndrawable = errors.New("dataset cannot be drawn")

// drawFunc draws the provided dataset to w.
type drawFunc func(w io.Writer, ds *shared.ChartReadyDataset, opts Options) error

var (
	initOnce sync.Once
	initErr  error
	drawers  map[shared.ChartKind]drawFunc
)

// Init registers the drawers of every chart kind and loads the charting
// library's default font. It only does work on the first call.
func Init() error {
	initOnce.Do(func() {
		_, err := chart.GetDefaultFont()
		if err != nil {
			initErr = fmt.Errorf("loading default font: %w", err)
			return
		}

		drawers = map[shared.ChartKind]drawFunc{
			shared.Candlestick: drawCandlestick,
			shared.Line:        drawLine,
			shared.Bar:         drawBar,
			shared.Pie:         drawPie,
		}
	})

	return initErr
}

// RendererConfig represents the configuration for the chart renderer.
type RendererConfig struct {
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *RendererConfig) Validate() error {
	var errs error

	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Renderer draws chart-ready datasets.
type Renderer struct {
	cfg *RendererConfig
}

// NewRenderer initializes a chart renderer, registering the charting library if needed.
func NewRenderer(cfg *RendererConfig) (*Renderer, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating renderer config: %w", err)
	}

	err = Init()
	if err != nil {
		return nil, fmt.Errorf("initializing chart library: %w", err)
	}

	return &Renderer{cfg: cfg}, nil
}

// Render draws the dataset for the provided chart kind to w as SVG. Empty
// datasets, and datasets the charting library cannot draw, produce an empty
// chart frame.
func (r *Renderer) Render(w io.Writer, kind shared.ChartKind, ds *shared.ChartReadyDataset, opts Options) error {
	draw, ok := drawers[kind]
	if !ok {
		return fmt.Errorf("no drawer registered for chart kind %s", kind.String())
	}

	opts = opts.withDefaults()

	var buf bytes.Buffer
	if ds.IsEmpty() {
		err := drawFrame(&buf, opts)
		if err != nil {
			return fmt.Errorf("drawing empty %s frame: %w", kind.String(), err)
		}
	} else {
		err := draw(&buf, ds, opts)
		if err != nil {
			r.cfg.Logger.Warn().Err(err).Msgf("unable to draw %s chart, drawing an empty frame", kind.String())
			buf.Reset()
			err = drawFrame(&buf, opts)
			if err != nil {
				return fmt.Errorf("drawing empty %s frame: %w", kind.String(), err)
			}
		}
	}

	svg := buf.Bytes()
	if opts.Responsive {
		svg = responsive(svg, opts.Width, opts.Height)
	}

	_, err := w.Write(svg)
	if err != nil {
		return fmt.Errorf("writing %s chart: %w", kind.String(), err)
	}

	return nil
}

// drawFrame draws an empty chart frame.
func drawFrame(w io.Writer, opts Options) error {
	r, err := chart.SVG(opts.Width, opts.Height)
	if err != nil {
		return err
	}

	pad := 10
	r.SetStrokeColor(frameColor)
	r.SetFillColor(frameFill)
	r.SetStrokeWidth(1)
	r.MoveTo(pad, pad)
	r.LineTo(opts.Width-pad, pad)
	r.LineTo(opts.Width-pad, opts.Height-pad)
	r.LineTo(pad, opts.Height-pad)
	r.Close()
	r.FillStroke()

	return r.Save(w)
}

// isFinite returns whether the value is a real number.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// valueRange returns a padded range covering the provided values. Non-finite
// values are ignored, the range always includes zero when includeZero is set.
func valueRange(values []float64, includeZero bool) (*chart.ContinuousRange, error) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	if math.IsInf(min, 1) {
		return nil, errUndrawable
	}

	if includeZero {
		min = math.Min(min, 0)
		max = math.Max(max, 0)
	}

	pad := (max - min) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(max)*0.1, 1)
	}
	if !includeZero || min < 0 {
		min -= pad
	}
	max += pad

	return &chart.ContinuousRange{Min: min, Max: max}, nil
}

// indexTicks returns one x axis tick per record, labelled from labels where
// available, padded by half a step on both ends.
func indexTicks(n int, label func(idx int) string) []chart.Tick {
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for idx := 0; idx < n; idx++ {
		ticks = append(ticks, chart.Tick{Value: float64(idx), Label: label(idx)})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	return ticks
}

// labelAt returns the label at idx, or an empty string when there is none.
func labelAt(labels []string, idx int) string {
	if idx < len(labels) {
		return labels[idx]
	}

	return ""
}

// textAt returns the label at idx escaped for svg text content.
func textAt(labels []string, idx int) string {
	return html.EscapeString(labelAt(labels, idx))
}

// newCartesian creates a chart with axes for the provided series.
func newCartesian(opts Options, n int, label func(idx int) string, yrange chart.Range, series []chart.Series) chart.Chart {
	ch := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Ticks: indexTicks(n, label),
		},
		YAxis: chart.YAxis{
			Range: yrange,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{legend(&ch, opts.LegendPosition)}

	return ch
}

// drawLine draws every dataset as a line against the shared labels.
func drawLine(w io.Writer, ds *shared.ChartReadyDataset, opts Options) error {
	var all []float64
	n := 0
	series := make([]chart.Series, 0, len(ds.Datasets))
	for idx := range ds.Datasets {
		set := ds.Datasets[idx]

		xs := make([]float64, 0, len(set.Values))
		ys := make([]float64, 0, len(set.Values))
		for pos, v := range set.Values {
			if !isFinite(v) {
				continue
			}
			xs = append(xs, float64(pos))
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}

		all = append(all, ys...)
		if len(set.Values) > n {
			n = len(set.Values)
		}

		series = append(series, chart.ContinuousSeries{
			Name: html.EscapeString(set.Label),
			Style: chart.Style{
				StrokeColor: colorOr(set.Style.BorderColor, chart.ColorBlue),
				StrokeWidth: 2,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	if len(series) == 0 {
		return errUndrawable
	}

	yrange, err := valueRange(all, false)
	if err != nil {
		return err
	}

	ch := newCartesian(opts, n, func(idx int) string { return textAt(ds.Labels, idx) }, yrange, series)
	return ch.Render(chart.SVG, w)
}

// drawCandlestick draws the first dataset's records as candles.
func drawCandlestick(w io.Writer, ds *shared.ChartReadyDataset, opts Options) error {
	set := ds.Datasets[0]
	if len(set.Points) == 0 {
		return errUndrawable
	}

	bounds := make([]float64, 0, len(set.Points)*2)
	for idx := range set.Points {
		if !finite(set.Points[idx]) {
			continue
		}
		bounds = append(bounds, set.Points[idx].L, set.Points[idx].H)
	}

	yrange, err := valueRange(bounds, false)
	if err != nil {
		return err
	}

	series := []chart.Series{CandlestickSeries{
		Name: html.EscapeString(set.Label),
		Style: chart.Style{
			StrokeColor: colorOr(set.Style.BorderColor, unchangedColor),
			FillColor:   colorOr(labelAt(set.Style.BackgroundColors, 0), unchangedColor),
		},
		YAxis:  chart.YAxisPrimary,
		Points: set.Points,
	}}

	label := func(idx int) string {
		if x := set.Points[idx].X; x != "" {
			return html.EscapeString(x)
		}
		return textAt(ds.Labels, idx)
	}

	ch := newCartesian(opts, len(set.Points), label, yrange, series)
	return ch.Render(chart.SVG, w)
}

// drawBar draws the first dataset's values as bars.
func drawBar(w io.Writer, ds *shared.ChartReadyDataset, opts Options) error {
	set := ds.Datasets[0]
	if len(set.Values) == 0 {
		return errUndrawable
	}

	yrange, err := valueRange(set.Values, true)
	if err != nil {
		return err
	}

	fill := colorOr(labelAt(set.Style.BackgroundColors, 0), frameColor)
	stroke := colorOr(set.Style.BorderColor, frameColor)

	bars := make([]chart.Value, 0, len(set.Values))
	for idx, v := range set.Values {
		if !isFinite(v) {
			v = 0
		}
		bars = append(bars, chart.Value{
			Label: textAt(ds.Labels, idx),
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: stroke, StrokeWidth: 1},
		})
	}

	barWidth := (opts.Width - 100) / (len(bars) * 2)
	if barWidth < 2 {
		barWidth = 2
	}

	bc := chart.BarChart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: legendPadding(opts.LegendPosition, chart.Box{Top: 40}),
		},
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		// Wrapping may split an escaped entity across lines.
		XAxis: chart.Style{TextWrap: chart.TextWrapNone},
		YAxis: chart.YAxis{
			Range: yrange,
		},
		Bars: bars,
		Elements: []chart.Renderable{swatchLegend([]legendEntry{{
			Label:  html.EscapeString(set.Label),
			Fill:   fill,
			Stroke: stroke,
		}}, opts)},
	}

	return bc.Render(chart.SVG, w)
}

// drawPie draws the first dataset's values as slices coloured by the
// dataset's background colours.
func drawPie(w io.Writer, ds *shared.ChartReadyDataset, opts Options) error {
	set := ds.Datasets[0]

	total := 0.0
	values := make([]chart.Value, 0, len(set.Values))
	entries := make([]legendEntry, 0, len(set.Values))
	for idx, v := range set.Values {
		if !isFinite(v) || v < 0 {
			return errUndrawable
		}
		total += v

		label := textAt(ds.Labels, idx)
		fill := colorOr(labelAt(set.Style.BackgroundColors, idx), sliceFallback)
		values = append(values, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: sliceEdge,
				StrokeWidth: 1,
			},
		})
		entries = append(entries, legendEntry{Label: label, Fill: fill, Stroke: sliceEdge})
	}

	if total <= 0 {
		return errUndrawable
	}

	pc := chart.PieChart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: legendPadding(opts.LegendPosition, chart.DefaultBackgroundPadding),
		},
		Values:   values,
		Elements: []chart.Renderable{swatchLegend(entries, opts)},
	}

	return pc.Render(chart.SVG, w)
}
