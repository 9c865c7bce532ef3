package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestChartKindString(t *testing.T) {
	tests := []struct {
		name  string
		kind  ChartKind
		want  string
		title string
		path  string
	}{
		{"candlestick", Candlestick, "candlestick", "Candlestick Chart", "/api/candlestick-data/"},
		{"line", Line, "line", "Line Chart", "/api/line-chart-data/"},
		{"bar", Bar, "bar", "Bar Chart", "/api/bar-chart-data/"},
		{"pie", Pie, "pie", "Pie Chart", "/api/pie-chart-data/"},
		{"unknown", ChartKind(99), "unknown", "Unknown Chart", ""},
	}

	for _, test := range tests {
		if str := test.kind.String(); str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
		if title := test.kind.Title(); title != test.title {
			t.Errorf("%s: expected title %v, got %v", test.name, test.title, title)
		}
		if path := test.kind.Path(); path != test.path {
			t.Errorf("%s: expected path %v, got %v", test.name, test.path, path)
		}
	}
}

func TestParseChartKind(t *testing.T) {
	// Ensure every kind round trips through its name.
	for _, kind := range ChartKinds {
		parsed, err := ParseChartKind(kind.String())
		assert.NoError(t, err)
		assert.Equal(t, parsed, kind)
	}

	// Ensure names are matched case insensitively.
	parsed, err := ParseChartKind(" Pie ")
	assert.NoError(t, err)
	assert.Equal(t, parsed, Pie)

	// Ensure unknown names error.
	_, err = ParseChartKind("radar")
	assert.Error(t, err)
}

func TestPayloadIsAbsent(t *testing.T) {
	tests := []struct {
		name    string
		payload *Payload
		absent  bool
		length  int
	}{
		{"nil payload", nil, true, 0},
		{"candlestick without series", &Payload{Kind: Candlestick}, true, 0},
		{"empty candlestick series", &Payload{Kind: Candlestick, Candlestick: &CandlestickSeries{}}, false, 0},
		{"line series", &Payload{Kind: Line, Category: &CategorySeries{Data: []float64{1, 2}}}, false, 2},
		{"bar with mismatched series", &Payload{Kind: Bar, Pie: &PieSeries{Data: []float64{1}}}, true, 0},
		{"pie series", &Payload{Kind: Pie, Pie: &PieSeries{Data: []float64{1, 2, 3}}}, false, 3},
		{"unknown kind", &Payload{Kind: ChartKind(42), Category: &CategorySeries{}}, true, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.payload.IsAbsent(), test.absent)
			assert.Equal(t, test.payload.Len(), test.length)
		})
	}
}

func TestChartReadyDatasetIsEmpty(t *testing.T) {
	// Ensure nil and zero value datasets are empty.
	var nilDataset *ChartReadyDataset
	assert.True(t, nilDataset.IsEmpty())
	assert.True(t, EmptyDataset().IsEmpty())

	// Ensure the empty dataset carries non-nil collections.
	empty := EmptyDataset()
	assert.NotNil(t, empty.Labels)
	assert.NotNil(t, empty.Datasets)

	// Ensure a dataset with no values is empty.
	ds := &ChartReadyDataset{Labels: []string{"a"}, Datasets: []Dataset{{Label: "Line Data"}}}
	assert.True(t, ds.IsEmpty())

	// Ensure values or points make a dataset drawable.
	ds.Datasets[0].Values = []float64{1}
	assert.False(t, ds.IsEmpty())

	ds = &ChartReadyDataset{Datasets: []Dataset{{Points: []OHLCPoint{{X: "2023-01-01"}}}}}
	assert.False(t, ds.IsEmpty())
}
