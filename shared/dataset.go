package shared

// OHLCPoint is a candlestick record in the shape the charting collaborator expects.
type OHLCPoint struct {
	X string  `json:"x"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
}

// Styling represents the visual styling of a dataset.
type Styling struct {
	BorderColor      string   `json:"borderColor,omitempty"`
	BackgroundColors []string `json:"backgroundColor,omitempty"`
}

// Dataset represents one drawable series of a chart. Candlestick datasets
// carry points, every other kind carries values.
type Dataset struct {
	Label  string      `json:"label"`
	Values []float64   `json:"data,omitempty"`
	Points []OHLCPoint `json:"points,omitempty"`
	Style  Styling     `json:"style"`
}

// ChartReadyDataset is the normalized chart input produced by a transformer.
type ChartReadyDataset struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// EmptyDataset returns a dataset with no labels and no datasets.
func EmptyDataset() *ChartReadyDataset {
	return &ChartReadyDataset{
		Labels:   []string{},
		Datasets: []Dataset{},
	}
}

// IsEmpty returns whether the dataset has nothing to draw.
func (d *ChartReadyDataset) IsEmpty() bool {
	if d == nil || len(d.Datasets) == 0 {
		return true
	}

	for idx := range d.Datasets {
		if len(d.Datasets[idx].Values) > 0 || len(d.Datasets[idx].Points) > 0 {
			return false
		}
	}

	return true
}
