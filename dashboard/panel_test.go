package dashboard

import (
	"testing"

	"github.com/dnldd/chartboard/chart"
	"github.com/dnldd/chartboard/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

func statuses(panels []Panel) map[shared.ChartKind]PanelStatus {
	out := make(map[shared.ChartKind]PanelStatus, len(panels))
	for idx := range panels {
		out[panels[idx].Kind] = panels[idx].Status
	}

	return out
}

func TestPanels(t *testing.T) {
	line := &shared.CategorySeries{Labels: []string{"Jan", "Feb"}, Data: []float64{10, 20}}
	empty := &shared.CategorySeries{Labels: []string{}, Data: []float64{}}

	loading := shared.NewAcquisitionState()
	loading.Phase = shared.Loading
	loading.Loading = true
	loading.Pending[shared.Candlestick] = true
	loading.Pending[shared.Pie] = true
	loading.Line = line
	loading.Bar = empty

	finished := loading.Clone()
	finished.Loading = false
	finished.Pending = map[shared.ChartKind]bool{}
	finished.Phase = shared.Failed
	finished.Error = shared.FetchFailedMessage

	tests := []struct {
		name     string
		snapshot shared.AcquisitionState
		mode     shared.AcquisitionMode
		want     map[shared.ChartKind]PanelStatus
	}{
		{
			name:     "idle view shows loading",
			snapshot: shared.NewAcquisitionState(),
			mode:     shared.Concurrent,
			want: map[shared.ChartKind]PanelStatus{
				shared.Candlestick: PanelLoading,
				shared.Line:        PanelLoading,
				shared.Bar:         PanelLoading,
				shared.Pie:         PanelLoading,
			},
		},
		{
			name:     "sequential loading hides arrived data",
			snapshot: loading,
			mode:     shared.Sequential,
			want: map[shared.ChartKind]PanelStatus{
				shared.Candlestick: PanelLoading,
				shared.Line:        PanelLoading,
				shared.Bar:         PanelLoading,
				shared.Pie:         PanelLoading,
			},
		},
		{
			name:     "concurrent loading shows arrived data",
			snapshot: loading,
			mode:     shared.Concurrent,
			want: map[shared.ChartKind]PanelStatus{
				shared.Candlestick: PanelLoading,
				shared.Line:        PanelChart,
				shared.Bar:         PanelChart,
				shared.Pie:         PanelLoading,
			},
		},
		{
			name:     "finished view separates absent from empty",
			snapshot: finished,
			mode:     shared.Sequential,
			want: map[shared.ChartKind]PanelStatus{
				shared.Candlestick: PanelNoData,
				shared.Line:        PanelChart,
				shared.Bar:         PanelChart,
				shared.Pie:         PanelNoData,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panels := Panels(tt.snapshot, tt.mode, &log.Logger)
			assert.Equal(t, len(panels), len(shared.ChartKinds))
			if diff := cmp.Diff(tt.want, statuses(panels)); diff != "" {
				t.Errorf("unexpected panel statuses (-want +got):\n%s", diff)
			}

			for idx, panel := range panels {
				// Ensure panels follow chart kind order.
				assert.Equal(t, panel.Kind, shared.ChartKinds[idx])
				assert.Equal(t, panel.Title, panel.Kind.Title())
				if panel.Status == PanelChart {
					assert.NotNil(t, panel.Dataset)
					assert.Equal(t, panel.Options, chart.DefaultOptions())
				} else {
					assert.Nil(t, panel.Dataset)
				}
			}
		})
	}
}

func TestPanelsTransformStoredData(t *testing.T) {
	snapshot := shared.NewAcquisitionState()
	snapshot.Phase = shared.Succeeded
	snapshot.Line = &shared.CategorySeries{Labels: []string{"Jan", "Feb"}, Data: []float64{10, 20}}
	snapshot.Bar = &shared.CategorySeries{Labels: []string{}, Data: []float64{}}

	panels := Panels(snapshot, shared.Concurrent, &log.Logger)

	// Ensure charted panels carry the transformer output.
	line := panels[1]
	assert.Equal(t, line.Status, PanelChart)
	assert.Equal(t, line.Dataset.Labels, []string{"Jan", "Feb"})
	assert.Equal(t, line.Dataset.Datasets[0].Label, "Line Data")
	assert.Equal(t, line.Dataset.Datasets[0].Values, []float64{10, 20})

	// Ensure an empty payload is charted with an empty dataset.
	bar := panels[2]
	assert.Equal(t, bar.Status, PanelChart)
	assert.True(t, bar.Dataset.IsEmpty())
}

func TestPanelStatusString(t *testing.T) {
	assert.Equal(t, PanelLoading.String(), "loading")
	assert.Equal(t, PanelNoData.String(), "no-data")
	assert.Equal(t, PanelChart.String(), "chart")
	assert.Equal(t, PanelStatus(9).String(), "unknown")
}
