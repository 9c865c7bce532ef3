package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/chartboard/fixture"
	"github.com/dnldd/chartboard/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupFixtures(t *testing.T, overrides map[shared.ChartKind]fixture.Override) (*fixture.Server, *httptest.Server) {
	srv, err := fixture.NewServer(&fixture.ServerConfig{
		Overrides: overrides,
		Logger:    &log.Logger,
	})
	assert.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, ts
}

func setupClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	client, err := NewClient(&ClientConfig{
		BaseURL: baseURL,
		Timeout: timeout,
		Logger:  &log.Logger,
	})
	assert.NoError(t, err)

	return client
}

func TestClientConfigValidate(t *testing.T) {
	logger := zerolog.Nop()
	baseCfg := &ClientConfig{
		BaseURL: DefaultBaseURL,
		Logger:  &logger,
	}

	tests := []struct {
		name        string
		modify      func(cfg *ClientConfig)
		wantErr     bool
		errContains []string
	}{
		{
			name:   "valid config returns nil",
			modify: func(cfg *ClientConfig) {},
		},
		{
			name:        "missing base url",
			modify:      func(cfg *ClientConfig) { cfg.BaseURL = "" },
			wantErr:     true,
			errContains: []string{"base url cannot be an empty string"},
		},
		{
			name:        "non http base url",
			modify:      func(cfg *ClientConfig) { cfg.BaseURL = "ftp://host" },
			wantErr:     true,
			errContains: []string{"base url must be an http(s) url"},
		},
		{
			name:        "negative timeout",
			modify:      func(cfg *ClientConfig) { cfg.Timeout = -time.Second },
			wantErr:     true,
			errContains: []string{"timeout cannot be negative"},
		},
		{
			name: "multiple missing fields",
			modify: func(cfg *ClientConfig) {
				*cfg = ClientConfig{}
			},
			wantErr: true,
			errContains: []string{
				"base url cannot be an empty string",
				"logger cannot be nil",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *baseCfg
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				for _, substr := range tt.errContains {
					assert.True(t, strings.Contains(err.Error(), substr))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	// Ensure the default timeout is applied when none is configured.
	client := setupClient(t, DefaultBaseURL+"/", 0)
	assert.Equal(t, client.Timeout(), DefaultTimeout)
	assert.Equal(t, DefaultTimeout, time.Millisecond*5000)

	// Ensure endpoints are formed from the base url.
	assert.Equal(t, client.Endpoint(shared.Candlestick), "http://localhost:8000/api/candlestick-data/")
	assert.Equal(t, client.Endpoint(shared.Pie), "http://localhost:8000/api/pie-chart-data/")

	// Ensure an invalid config is rejected.
	_, err := NewClient(&ClientConfig{})
	assert.Error(t, err)
}

func TestFetchSeries(t *testing.T) {
	_, ts := setupFixtures(t, nil)
	client := setupClient(t, ts.URL, 0)
	ctx := context.Background()

	candles, err := client.FetchSeries(ctx, shared.Candlestick)
	assert.NoError(t, err)
	want := &shared.CandlestickSeries{
		Labels: []string{"2023-01-01", "2023-01-02"},
		Data: []shared.OHLC{
			{X: "2023-01-01", Open: 30, High: 40, Low: 25, Close: 35},
			{X: "2023-01-02", Open: 35, High: 45, Low: 30, Close: 40},
		},
	}
	if diff := cmp.Diff(want, candles.Candlestick); diff != "" {
		t.Errorf("unexpected candlestick series (-want +got):\n%s", diff)
	}

	line, err := client.FetchSeries(ctx, shared.Line)
	assert.NoError(t, err)
	assert.Equal(t, line.Kind, shared.Line)
	assert.Equal(t, line.Category.Labels, []string{"Jan", "Feb", "Mar", "Apr"})
	assert.Equal(t, line.Category.Data, []float64{10, 20, 30, 40})

	bar, err := client.FetchSeries(ctx, shared.Bar)
	assert.NoError(t, err)
	assert.Equal(t, bar.Category.Data, []float64{100, 150, 200})

	pie, err := client.FetchSeries(ctx, shared.Pie)
	assert.NoError(t, err)
	assert.Equal(t, pie.Pie.Labels, []string{"Red", "Blue", "Yellow"})
	assert.Equal(t, pie.Pie.Data, []float64{300, 50, 100})

	// Ensure unknown kinds are rejected as network errors.
	_, err = client.FetchSeries(ctx, shared.ChartKind(42))
	assert.True(t, errors.Is(err, shared.ErrNetwork))
}

func TestFetchWithTimeout(t *testing.T) {
	fixtures, ts := setupFixtures(t, map[shared.ChartKind]fixture.Override{
		shared.Line: {Latency: time.Millisecond * 20},
		shared.Bar:  {Latency: time.Second * 2},
	})
	client := setupClient(t, ts.URL, 0)
	ctx := context.Background()
	timeout := time.Millisecond * 300

	// Ensure a request completing before the deadline succeeds.
	body, err := client.FetchWithTimeout(ctx, client.Endpoint(shared.Line), timeout)
	assert.NoError(t, err)
	assert.True(t, len(body) > 0)

	// Ensure a request outliving the deadline fails with a timeout at the deadline.
	start := time.Now()
	_, err = client.FetchWithTimeout(ctx, client.Endpoint(shared.Bar), timeout)
	elapsed := time.Since(start)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrTimeout))
	assert.False(t, errors.Is(err, shared.ErrNetwork))
	assert.True(t, elapsed >= timeout)
	assert.True(t, elapsed < time.Second)

	var timeoutErr *shared.TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, timeoutErr.Timeout, timeout)
	assert.Equal(t, timeoutErr.Endpoint, client.Endpoint(shared.Bar))

	// Ensure the timed out request is aborted rather than left running.
	deadline := time.Now().Add(time.Second * 2)
	for fixtures.Aborted(shared.Bar) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond * 10)
	}
	assert.Equal(t, fixtures.Aborted(shared.Bar), 1)
}

func TestFetchNetworkErrors(t *testing.T) {
	_, ts := setupFixtures(t, map[shared.ChartKind]fixture.Override{
		shared.Line: {Status: http.StatusInternalServerError, Body: `{"detail":"boom"}`},
		shared.Bar:  {Body: `{"labels": [`},
		shared.Pie:  {Latency: time.Second * 2},
	})
	client := setupClient(t, ts.URL, 0)

	// Ensure non-2xx statuses are network errors carrying the status.
	_, err := client.FetchSeries(context.Background(), shared.Line)
	assert.True(t, errors.Is(err, shared.ErrNetwork))
	var netErr *shared.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, netErr.StatusCode, http.StatusInternalServerError)
	assert.True(t, strings.Contains(err.Error(), "boom"))

	// Ensure malformed bodies are network errors.
	_, err = client.FetchSeries(context.Background(), shared.Bar)
	assert.True(t, errors.Is(err, shared.ErrNetwork))

	// Ensure a cancelled caller yields a network error, not a timeout.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(time.Millisecond * 50)
		cancel()
	}()
	_, err = client.FetchSeries(ctx, shared.Pie)
	assert.True(t, errors.Is(err, shared.ErrNetwork))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, shared.ErrTimeout))

	// Ensure refused connections are network errors.
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	refused := setupClient(t, closed.URL, 0)
	_, err = refused.FetchSeries(context.Background(), shared.Candlestick)
	assert.True(t, errors.Is(err, shared.ErrNetwork))
	assert.False(t, errors.Is(err, shared.ErrTimeout))
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		kind    shared.ChartKind
		body    string
		wantErr bool
		absent  bool
		length  int
	}{
		{
			name:   "null body is absent",
			kind:   shared.Line,
			body:   `null`,
			absent: true,
		},
		{
			name:   "empty arrays are present",
			kind:   shared.Bar,
			body:   `{"labels": [], "data": []}`,
			length: 0,
		},
		{
			name:   "missing fields are empty",
			kind:   shared.Pie,
			body:   `{}`,
			length: 0,
		},
		{
			name:   "candlestick without labels",
			kind:   shared.Candlestick,
			body:   `{"data": [{"x": "2023-01-01", "open": 30, "high": 40, "low": 25, "close": 35}]}`,
			length: 1,
		},
		{
			name:   "mismatched labels are accepted",
			kind:   shared.Line,
			body:   `{"labels": ["a"], "data": [1, 2, 3]}`,
			length: 3,
		},
		{
			name:    "invalid json",
			kind:    shared.Line,
			body:    `{"labels": `,
			wantErr: true,
		},
		{
			name:    "empty body",
			kind:    shared.Line,
			body:    ``,
			wantErr: true,
		},
		{
			name:    "top level array",
			kind:    shared.Line,
			body:    `[1, 2]`,
			wantErr: true,
		},
		{
			name:    "labels not an array",
			kind:    shared.Bar,
			body:    `{"labels": "a", "data": []}`,
			wantErr: true,
		},
		{
			name:    "data not an array",
			kind:    shared.Bar,
			body:    `{"labels": [], "data": 4}`,
			wantErr: true,
		},
		{
			name:    "non numeric value",
			kind:    shared.Pie,
			body:    `{"labels": ["a"], "data": ["x"]}`,
			wantErr: true,
		},
		{
			name:    "candlestick record not an object",
			kind:    shared.Candlestick,
			body:    `{"data": [4]}`,
			wantErr: true,
		},
		{
			name:    "unknown kind",
			kind:    shared.ChartKind(42),
			body:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload(tt.kind, []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, payload.Kind, tt.kind)
			assert.Equal(t, payload.IsAbsent(), tt.absent)
			assert.Equal(t, payload.Len(), tt.length)
		})
	}
}
