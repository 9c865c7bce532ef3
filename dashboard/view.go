package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dnldd/chartboard/chart"
	"github.com/dnldd/chartboard/shared"
	"github.com/rs/zerolog"
)

// ErrNotCharted is returned when a panel has no chart to draw.
var ErrNotCharted = errors.New("panel is not charted")

// Acquirer acquires the datasets of every chart kind.
type Acquirer interface {
	Acquire(ctx context.Context) error
}

// ChartRenderer draws chart-ready datasets.
type ChartRenderer interface {
	Render(w io.Writer, kind shared.ChartKind, ds *shared.ChartReadyDataset, opts chart.Options) error
}

// ViewConfig represents the configuration for the dashboard view.
type ViewConfig struct {
	// Acquirer fetches the chart data on activation.
	Acquirer Acquirer
	// State is the acquisition state the view presents.
	State *State
	// Renderer draws the charted panels.
	Renderer ChartRenderer
	// Mode is the acquisition mode, it decides how panels report loading.
	Mode shared.AcquisitionMode
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ViewConfig) Validate() error {
	var errs error

	if cfg.Acquirer == nil {
		errs = errors.Join(errs, fmt.Errorf("acquirer cannot be nil"))
	}
	if cfg.State == nil {
		errs = errors.Join(errs, fmt.Errorf("state cannot be nil"))
	}
	if cfg.Renderer == nil {
		errs = errors.Join(errs, fmt.Errorf("renderer cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// View presents the dashboard.
type View struct {
	cfg       *ViewConfig
	page      *template.Template
	once      sync.Once
	activated atomic.Bool
}

// NewView initializes the dashboard view.
func NewView(cfg *ViewConfig) (*View, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating view config: %w", err)
	}

	page, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &View{cfg: cfg, page: page}, nil
}

// Activate acquires the chart data. Only the first call does any work, the
// view never returns to loading once an acquisition has run.
func (v *View) Activate(ctx context.Context) error {
	var err error
	ran := false

	v.once.Do(func() {
		ran = true
		v.activated.Store(true)
		err = v.cfg.Acquirer.Acquire(ctx)
	})

	if !ran {
		v.cfg.Logger.Debug().Msg("view already activated")
	}

	return err
}

// Activated returns whether the view has been activated.
func (v *View) Activated() bool {
	return v.activated.Load()
}

// Panels returns the current panel decisions.
func (v *View) Panels() (shared.AcquisitionState, []Panel) {
	snapshot := v.cfg.State.Snapshot()
	return snapshot, Panels(snapshot, v.cfg.Mode, v.cfg.Logger)
}

// RenderChart draws the chart of the provided kind as SVG.
func (v *View) RenderChart(w io.Writer, kind shared.ChartKind) error {
	_, panels := v.Panels()
	for idx := range panels {
		panel := panels[idx]
		if panel.Kind != kind {
			continue
		}
		if panel.Status != PanelChart {
			return fmt.Errorf("%s: %w", kind.String(), ErrNotCharted)
		}

		return v.cfg.Renderer.Render(w, kind, panel.Dataset, panel.Options)
	}

	return fmt.Errorf("unknown chart kind %d: %w", int(kind), ErrNotCharted)
}

// panelView is the template input of a single panel.
type panelView struct {
	Kind    string
	Title   string
	Loading bool
	NoData  bool
	Message string
	SVG     template.HTML
}

// pageView is the template input of the dashboard page.
type pageView struct {
	Error      string
	Refreshing bool
	Panels     []panelView
}

// RenderPage writes the dashboard page.
func (v *View) RenderPage(w io.Writer) error {
	snapshot, panels := v.Panels()

	page := pageView{
		Error:  snapshot.Error,
		Panels: make([]panelView, 0, len(panels)),
	}

	for idx := range panels {
		panel := panels[idx]
		pv := panelView{
			Kind:  panel.Kind.String(),
			Title: panel.Title,
		}

		switch panel.Status {
		case PanelLoading:
			pv.Loading = true
			page.Refreshing = true
		case PanelNoData:
			pv.NoData = true
			pv.Message = NoDataMessage
		case PanelChart:
			var buf bytes.Buffer
			err := v.cfg.Renderer.Render(&buf, panel.Kind, panel.Dataset, panel.Options)
			if err != nil {
				return fmt.Errorf("rendering %s chart: %w", panel.Kind.String(), err)
			}
			// The chart renderer escapes every label and dataset name it draws.
			pv.SVG = template.HTML(buf.String())
		}

		page.Panels = append(page.Panels, pv)
	}

	var buf bytes.Buffer
	err := v.page.Execute(&buf, page)
	if err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}

	_, err = buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

// StatePanel is the json form of a panel.
type StatePanel struct {
	Kind    string                    `json:"kind"`
	Title   string                    `json:"title"`
	Status  PanelStatus               `json:"status"`
	Failure string                    `json:"failure,omitempty"`
	Dataset *shared.ChartReadyDataset `json:"dataset,omitempty"`
	Options *chart.Options            `json:"options,omitempty"`
}

// StateView is the json form of the dashboard.
type StateView struct {
	Phase   string       `json:"phase"`
	Mode    string       `json:"mode"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Panels  []StatePanel `json:"panels"`
}

// StateView returns the json form of the dashboard.
func (v *View) StateView() StateView {
	snapshot, panels := v.Panels()

	sv := StateView{
		Phase:   snapshot.Phase.String(),
		Mode:    v.cfg.Mode.String(),
		Loading: snapshot.Loading,
		Error:   snapshot.Error,
		Panels:  make([]StatePanel, 0, len(panels)),
	}

	for idx := range panels {
		panel := panels[idx]
		sp := StatePanel{
			Kind:    panel.Kind.String(),
			Title:   panel.Title,
			Status:  panel.Status,
			Failure: panel.Failure,
		}
		if panel.Status == PanelChart {
			opts := panel.Options
			sp.Dataset = panel.Dataset
			sp.Options = &opts
		}

		sv.Panels = append(sv.Panels, sp)
	}

	return sv
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chart Dashboard</title>
{{- if .Refreshing}}
<meta http-equiv="refresh" content="1">
{{- end}}
</head>
<body>
{{- if .Error}}
<p class="error" style="color: red;">{{.Error}}</p>
{{- end}}
{{- range .Panels}}
<div class="panel" id="{{.Kind}}">
<h2>{{.Title}}</h2>
{{- if .Loading}}
<p>Loading...</p>
{{- else if .NoData}}
<p>{{.Message}}</p>
{{- else}}
{{.SVG}}
{{- end}}
</div>
{{- end}}
</body>
</html>
`
