package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/chartboard/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the default chart api host.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout is the maximum time a single chart data request may take.
	DefaultTimeout = time.Second * 5
	// maxErrorBodySize is the maximum number of response bytes quoted in errors.
	maxErrorBodySize = 256
)

// ClientConfig represents the configuration for the chart api client.
type ClientConfig struct {
	// BaseURL is the chart api host, e.g. http://localhost:8000.
	BaseURL string
	// Timeout bounds each request, defaults to DefaultTimeout.
	Timeout time.Duration
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ClientConfig) Validate() error {
	var errs error

	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("base url cannot be an empty string"))
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		errs = errors.Join(errs, fmt.Errorf("base url must be an http(s) url"))
	}
	if cfg.Timeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("timeout cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Client represents the chart api client.
type Client struct {
	cfg   *ClientConfig
	httpc *http.Client
}

// Ensure the client implements the SeriesFetcher interface.
var _ shared.SeriesFetcher = (*Client)(nil)

// NewClient instantiates a new chart api client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating client config: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg: cfg,
		// Requests are bounded by their context, see FetchWithTimeout.
		httpc: &http.Client{},
	}, nil
}

// formURL creates the full url for the provided api path.
func (c *Client) formURL(path string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(c.cfg.BaseURL, "/"))
	sb.WriteString(path)
	return sb.String()
}

// Endpoint returns the endpoint serving the provided chart kind.
func (c *Client) Endpoint(kind shared.ChartKind) string {
	return c.formURL(kind.Path())
}

// Timeout returns the per request timeout.
func (c *Client) Timeout() time.Duration {
	return c.cfg.Timeout
}

// classifyError maps a failed request to a timeout or network error.
func classifyError(parent context.Context, reqCtx context.Context, endpoint string, timeout time.Duration, err error) error {
	switch {
	case parent.Err() != nil:
		return shared.NewNetworkError(endpoint, 0, fmt.Errorf("request cancelled: %w", parent.Err()))
	case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return shared.NewTimeoutError(endpoint, timeout, err)
	default:
		return shared.NewNetworkError(endpoint, 0, err)
	}
}

// FetchWithTimeout issues a GET request against the provided endpoint, the
// request is aborted if it does not complete within the timeout.
func (c *Client) FetchWithTimeout(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, shared.NewNetworkError(endpoint, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, classifyError(ctx, reqCtx, endpoint, timeout, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(ctx, reqCtx, endpoint, timeout, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		quoted := body
		if len(quoted) > maxErrorBodySize {
			quoted = quoted[:maxErrorBodySize]
		}
		return nil, shared.NewNetworkError(endpoint, resp.StatusCode,
			fmt.Errorf("unexpected response: %q", string(quoted)))
	}

	return body, nil
}

// FetchSeries fetches and parses the payload for the provided chart kind.
func (c *Client) FetchSeries(ctx context.Context, kind shared.ChartKind) (*shared.Payload, error) {
	endpoint := c.Endpoint(kind)
	if kind.Path() == "" {
		return nil, shared.NewNetworkError(endpoint, 0, fmt.Errorf("unknown chart kind provided: %d", int(kind)))
	}

	start := time.Now()
	body, err := c.FetchWithTimeout(ctx, endpoint, c.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	payload, err := ParsePayload(kind, body)
	if err != nil {
		c.cfg.Logger.Debug().Msgf("unexpected %s payload: %s", kind.String(), spew.Sdump(gjson.ParseBytes(body).Value()))
		return nil, shared.NewNetworkError(endpoint, 0, fmt.Errorf("parsing %s payload: %w", kind.String(), err))
	}

	c.cfg.Logger.Debug().Msgf("fetched %s data (%d records) in %s", kind.String(), payload.Len(),
		time.Since(start).Round(time.Millisecond))

	return payload, nil
}

// parseLabels parses the labels array of the provided payload.
func parseLabels(res gjson.Result) ([]string, error) {
	field := res.Get("labels")
	if field.Exists() && field.Type != gjson.Null && !field.IsArray() {
		return nil, fmt.Errorf("labels is not an array")
	}

	entries := field.Array()
	labels := make([]string, 0, len(entries))
	for idx := range entries {
		labels = append(labels, entries[idx].String())
	}

	return labels, nil
}

// dataEntries returns the entries of the data array of the provided payload.
func dataEntries(res gjson.Result) ([]gjson.Result, error) {
	field := res.Get("data")
	if field.Exists() && field.Type != gjson.Null && !field.IsArray() {
		return nil, fmt.Errorf("data is not an array")
	}

	return field.Array(), nil
}

// parseValues parses numeric data entries.
func parseValues(entries []gjson.Result) ([]float64, error) {
	values := make([]float64, 0, len(entries))
	for idx := range entries {
		if entries[idx].Type != gjson.Number {
			return nil, fmt.Errorf("data entry %d is not a number: %s", idx, entries[idx].Raw)
		}
		values = append(values, entries[idx].Float())
	}

	return values, nil
}

// parseCandlesticks parses candlestick data entries.
func parseCandlesticks(entries []gjson.Result) ([]shared.OHLC, error) {
	records := make([]shared.OHLC, 0, len(entries))
	for idx := range entries {
		entry := entries[idx]
		if !entry.IsObject() {
			return nil, fmt.Errorf("data entry %d is not an object: %s", idx, entry.Raw)
		}

		records = append(records, shared.OHLC{
			X:     entry.Get("x").String(),
			Open:  entry.Get("open").Float(),
			High:  entry.Get("high").Float(),
			Low:   entry.Get("low").Float(),
			Close: entry.Get("close").Float(),
		})
	}

	return records, nil
}

// ParsePayload validates the shape of the provided response body and parses
// it into a payload for the provided kind. A json null body is an absent payload.
func ParsePayload(kind shared.ChartKind, body []byte) (*shared.Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed json body")
	}

	payload := &shared.Payload{Kind: kind}

	res := gjson.ParseBytes(body)
	if res.Type == gjson.Null {
		return payload, nil
	}
	if !res.IsObject() {
		return nil, fmt.Errorf("expected a json object, got %s", res.Type.String())
	}

	labels, err := parseLabels(res)
	if err != nil {
		return nil, err
	}

	entries, err := dataEntries(res)
	if err != nil {
		return nil, err
	}

	switch kind {
	case shared.Candlestick:
		records, err := parseCandlesticks(entries)
		if err != nil {
			return nil, err
		}
		payload.Candlestick = &shared.CandlestickSeries{Labels: labels, Data: records}
	case shared.Line, shared.Bar:
		values, err := parseValues(entries)
		if err != nil {
			return nil, err
		}
		payload.Category = &shared.CategorySeries{Labels: labels, Data: values}
	case shared.Pie:
		values, err := parseValues(entries)
		if err != nil {
			return nil, err
		}
		payload.Pie = &shared.PieSeries{Labels: labels, Data: values}
	default:
		return nil, fmt.Errorf("unknown chart kind provided: %d", int(kind))
	}

	return payload, nil
}
