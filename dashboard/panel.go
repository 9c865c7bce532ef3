package dashboard

import (
	"github.com/dnldd/chartboard/chart"
	"github.com/dnldd/chartboard/shared"
	"github.com/dnldd/chartboard/transform"
	"github.com/rs/zerolog"
)

// NoDataMessage is shown in place of a chart whose data is absent.
const NoDataMessage = "No data available"

// PanelStatus represents what a panel shows.
type PanelStatus int

const (
	PanelLoading PanelStatus = iota
	PanelNoData
	PanelChart
)

// String stringifies the provided panel status.
func (s PanelStatus) String() string {
	switch s {
	case PanelLoading:
		return "loading"
	case PanelNoData:
		return "no-data"
	case PanelChart:
		return "chart"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s PanelStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Panel represents the presentation decision for one chart slot.
type Panel struct {
	Kind   shared.ChartKind
	Title  string
	Status PanelStatus
	// Failure is the cause of a failed fetch, if any.
	Failure string
	// Dataset and Options are only set for charted panels.
	Dataset *shared.ChartReadyDataset
	Options chart.Options
}

// isLoading returns whether the panel of the provided kind is still loading.
// Sequential acquisitions hold every panel until the whole run ends,
// concurrent ones release each panel as soon as its own fetch completes.
func isLoading(snapshot *shared.AcquisitionState, kind shared.ChartKind, mode shared.AcquisitionMode) bool {
	if snapshot.Phase == shared.Idle {
		return true
	}

	switch mode {
	case shared.Sequential:
		return snapshot.Loading
	default:
		return snapshot.Loading && snapshot.Pending[kind]
	}
}

// Panels decides what every panel of the provided snapshot shows, in chart kind order.
func Panels(snapshot shared.AcquisitionState, mode shared.AcquisitionMode, logger *zerolog.Logger) []Panel {
	panels := make([]Panel, 0, len(shared.ChartKinds))
	for _, kind := range shared.ChartKinds {
		panel := Panel{
			Kind:    kind,
			Title:   kind.Title(),
			Failure: snapshot.Failures[kind],
		}

		payload := snapshot.Payload(kind)

		switch {
		case isLoading(&snapshot, kind, mode):
			panel.Status = PanelLoading
		case payload.IsAbsent():
			panel.Status = PanelNoData
		default:
			panel.Status = PanelChart
			panel.Dataset = transform.ForPayload(payload, logger)
			panel.Options = chart.DefaultOptions()
		}

		panels = append(panels, panel)
	}

	return panels
}
