package shared

import (
	"context"
)

// SeriesFetcher defines the requirements for fetching chart data.
type SeriesFetcher interface {
	// FetchSeries fetches the raw payload for the provided chart kind.
	FetchSeries(ctx context.Context, kind ChartKind) (*Payload, error)
	// Endpoint returns the endpoint serving the provided chart kind.
	Endpoint(kind ChartKind) string
}

// StateUpdater defines the callbacks an acquisition reports its progress through.
type StateUpdater interface {
	// Begin marks the provided kinds as loading and clears any previous error.
	Begin(kinds []ChartKind)
	// Store records the fetched payload for its kind.
	Store(payload *Payload)
	// Fail records a failed fetch for the provided kind.
	Fail(kind ChartKind, err error)
	// Finish marks the acquisition as done.
	Finish()
}
