package shared

import (
	"fmt"
	"strings"
)

// ChartKind represents the kind of chart a dataset is drawn as.
type ChartKind int

const (
	Candlestick ChartKind = iota
	Line
	Bar
	Pie
)

// ChartKinds lists every chart kind in acquisition order.
var ChartKinds = []ChartKind{Candlestick, Line, Bar, Pie}

// String stringifies the provided chart kind.
func (k ChartKind) String() string {
	switch k {
	case Candlestick:
		return "candlestick"
	case Line:
		return "line"
	case Bar:
		return "bar"
	case Pie:
		return "pie"
	default:
		return "unknown"
	}
}

// Title returns the panel heading for the chart kind.
func (k ChartKind) Title() string {
	switch k {
	case Candlestick:
		return "Candlestick Chart"
	case Line:
		return "Line Chart"
	case Bar:
		return "Bar Chart"
	case Pie:
		return "Pie Chart"
	default:
		return "Unknown Chart"
	}
}

// Path returns the api path serving data for the chart kind.
func (k ChartKind) Path() string {
	switch k {
	case Candlestick:
		return "/api/candlestick-data/"
	case Line:
		return "/api/line-chart-data/"
	case Bar:
		return "/api/bar-chart-data/"
	case Pie:
		return "/api/pie-chart-data/"
	default:
		return ""
	}
}

// ParseChartKind parses the provided chart kind name.
func ParseChartKind(name string) (ChartKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "candlestick":
		return Candlestick, nil
	case "line":
		return Line, nil
	case "bar":
		return Bar, nil
	case "pie":
		return Pie, nil
	default:
		return 0, fmt.Errorf("unknown chart kind provided: %s", name)
	}
}
