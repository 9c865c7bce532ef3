package shared

// OHLC represents a single candlestick record as served by the chart data api.
type OHLC struct {
	X     string
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// CandlestickSeries represents candlestick chart data. The number of labels
// is not required to match the number of records.
type CandlestickSeries struct {
	Labels []string
	Data   []OHLC
}

// CategorySeries represents labelled values, used for both line and bar charts.
type CategorySeries struct {
	Labels []string
	Data   []float64
}

// PieSeries represents labelled values drawn as proportions.
type PieSeries struct {
	Labels []string
	Data   []float64
}

// Payload represents the raw result of fetching one chart kind. Exactly one
// of the series fields matches the kind, a nil series marks an absent payload.
type Payload struct {
	Kind        ChartKind
	Candlestick *CandlestickSeries
	Category    *CategorySeries
	Pie         *PieSeries
}

// IsAbsent returns whether the payload carries no series for its kind.
func (p *Payload) IsAbsent() bool {
	if p == nil {
		return true
	}

	switch p.Kind {
	case Candlestick:
		return p.Candlestick == nil
	case Line, Bar:
		return p.Category == nil
	case Pie:
		return p.Pie == nil
	default:
		return true
	}
}

// Len returns the number of records held by the payload.
func (p *Payload) Len() int {
	if p.IsAbsent() {
		return 0
	}

	switch p.Kind {
	case Candlestick:
		return len(p.Candlestick.Data)
	case Line, Bar:
		return len(p.Category.Data)
	default:
		return len(p.Pie.Data)
	}
}
