package shared

import (
	"fmt"
	"strings"
)

// Phase represents the lifecycle phase of a view's data acquisition.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

// String stringifies the provided phase.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// AcquisitionMode represents how the chart datasets are fetched.
type AcquisitionMode int

const (
	// Concurrent fetches every dataset independently, a failure only affects its own panel.
	Concurrent AcquisitionMode = iota
	// Sequential fetches datasets one after the other and stops at the first failure.
	Sequential
)

// String stringifies the provided acquisition mode.
func (m AcquisitionMode) String() string {
	switch m {
	case Concurrent:
		return "concurrent"
	case Sequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// ParseAcquisitionMode parses the provided acquisition mode name.
func ParseAcquisitionMode(name string) (AcquisitionMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "concurrent":
		return Concurrent, nil
	case "sequential":
		return Sequential, nil
	default:
		return 0, fmt.Errorf("unknown acquisition mode provided: %s", name)
	}
}

// AcquisitionState represents the data acquired for a view. Nil slots are
// datasets that have not been loaded.
type AcquisitionState struct {
	Candlestick *CandlestickSeries
	Line        *CategorySeries
	Bar         *CategorySeries
	Pie         *PieSeries

	Loading bool
	Error   string

	// Pending tracks panels whose fetch has not completed yet.
	Pending map[ChartKind]bool
	// Failures tracks the failure reason of each failed panel.
	Failures map[ChartKind]string
	Phase    Phase
}

// NewAcquisitionState initializes an idle acquisition state.
func NewAcquisitionState() AcquisitionState {
	return AcquisitionState{
		Pending:  make(map[ChartKind]bool),
		Failures: make(map[ChartKind]string),
		Phase:    Idle,
	}
}

// Payload returns the stored payload for the provided kind.
func (s *AcquisitionState) Payload(kind ChartKind) *Payload {
	payload := &Payload{Kind: kind}

	switch kind {
	case Candlestick:
		payload.Candlestick = s.Candlestick
	case Line:
		payload.Category = s.Line
	case Bar:
		payload.Category = s.Bar
	case Pie:
		payload.Pie = s.Pie
	}

	return payload
}

// SetPayload stores the provided payload in the slot matching its kind.
func (s *AcquisitionState) SetPayload(payload *Payload) {
	switch payload.Kind {
	case Candlestick:
		s.Candlestick = payload.Candlestick
	case Line:
		s.Line = payload.Category
	case Bar:
		s.Bar = payload.Category
	case Pie:
		s.Pie = payload.Pie
	}
}

// Clone returns a copy of the state whose maps can be read without locking.
// Series are shared, they are never mutated after being stored.
func (s *AcquisitionState) Clone() AcquisitionState {
	clone := *s

	clone.Pending = make(map[ChartKind]bool, len(s.Pending))
	for k, v := range s.Pending {
		clone.Pending[k] = v
	}

	clone.Failures = make(map[ChartKind]string, len(s.Failures))
	for k, v := range s.Failures {
		clone.Failures[k] = v
	}

	return clone
}
