// Package transform maps raw chart api payloads into chart-ready datasets.
package transform

import (
	"github.com/dnldd/chartboard/shared"
	"github.com/rs/zerolog"
)

const (
	candlestickLabel = "Candlestick Data"
	lineLabel        = "Line Data"
	barLabel         = "Bar Data"
	pieLabel         = "Pie Data"
)

// noteAbsent records that a transformer received no data.
func noteAbsent(logger *zerolog.Logger, kind shared.ChartKind) {
	if logger == nil {
		return
	}

	logger.Debug().Str("kind", kind.String()).Msgf("no %s data to transform", kind.String())
}

// copyLabels copies the provided labels, substituting nil with an empty slice.
func copyLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// copyValues copies the provided values, substituting nil with an empty slice.
func copyValues(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// Candlestick transforms candlestick data into a chart-ready dataset.
func Candlestick(data *shared.CandlestickSeries, logger *zerolog.Logger) *shared.ChartReadyDataset {
	if data == nil {
		noteAbsent(logger, shared.Candlestick)
		return shared.EmptyDataset()
	}

	points := make([]shared.OHLCPoint, len(data.Data))
	for idx := range data.Data {
		entry := data.Data[idx]
		points[idx] = shared.OHLCPoint{
			X: entry.X,
			O: entry.Open,
			H: entry.High,
			L: entry.Low,
			C: entry.Close,
		}
	}

	return &shared.ChartReadyDataset{
		Labels: copyLabels(data.Labels),
		Datasets: []shared.Dataset{{
			Label:  candlestickLabel,
			Points: points,
			Style: shared.Styling{
				BorderColor:      defaultColor,
				BackgroundColors: []string{defaultColor},
			},
		}},
	}
}

// category transforms labelled values drawn as a single series.
func category(kind shared.ChartKind, label string, data *shared.CategorySeries, logger *zerolog.Logger) *shared.ChartReadyDataset {
	if data == nil {
		noteAbsent(logger, kind)
		return shared.EmptyDataset()
	}

	return &shared.ChartReadyDataset{
		Labels: copyLabels(data.Labels),
		Datasets: []shared.Dataset{{
			Label:  label,
			Values: copyValues(data.Data),
			Style: shared.Styling{
				BorderColor:      defaultColor,
				BackgroundColors: []string{defaultColor},
			},
		}},
	}
}

// Line transforms line chart data into a chart-ready dataset.
func Line(data *shared.CategorySeries, logger *zerolog.Logger) *shared.ChartReadyDataset {
	return category(shared.Line, lineLabel, data, logger)
}

// Bar transforms bar chart data into a chart-ready dataset.
func Bar(data *shared.CategorySeries, logger *zerolog.Logger) *shared.ChartReadyDataset {
	return category(shared.Bar, barLabel, data, logger)
}

// Pie transforms pie chart data into a chart-ready dataset, assigning every
// slice a palette colour.
func Pie(data *shared.PieSeries, logger *zerolog.Logger) *shared.ChartReadyDataset {
	if data == nil {
		noteAbsent(logger, shared.Pie)
		return shared.EmptyDataset()
	}

	return &shared.ChartReadyDataset{
		Labels: copyLabels(data.Labels),
		Datasets: []shared.Dataset{{
			Label:  pieLabel,
			Values: copyValues(data.Data),
			Style: shared.Styling{
				BackgroundColors: sliceColors(len(data.Data)),
			},
		}},
	}
}

// ForPayload transforms the provided payload using the transformer matching its kind.
func ForPayload(payload *shared.Payload, logger *zerolog.Logger) *shared.ChartReadyDataset {
	if payload == nil {
		return shared.EmptyDataset()
	}

	switch payload.Kind {
	case shared.Candlestick:
		return Candlestick(payload.Candlestick, logger)
	case shared.Line:
		return Line(payload.Category, logger)
	case shared.Bar:
		return Bar(payload.Category, logger)
	case shared.Pie:
		return Pie(payload.Pie, logger)
	default:
		if logger != nil {
			logger.Error().Msgf("no transformer for chart kind %d", int(payload.Kind))
		}
		return shared.EmptyDataset()
	}
}
