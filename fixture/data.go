package fixture

import (
	"github.com/dnldd/chartboard/shared"
)

// candlestickRecord is the wire shape of a candlestick record.
type candlestickRecord struct {
	X     string  `json:"x"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// candlestickBody is the wire shape of the candlestick endpoint.
type candlestickBody struct {
	Labels []string            `json:"labels"`
	Data   []candlestickRecord `json:"data"`
}

// categoryBody is the wire shape of the line, bar and pie endpoints.
type categoryBody struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// SampleBody returns the sample response body served for the provided kind.
func SampleBody(kind shared.ChartKind) any {
	switch kind {
	case shared.Candlestick:
		return candlestickBody{
			Labels: []string{"2023-01-01", "2023-01-02"},
			Data: []candlestickRecord{
				{X: "2023-01-01", Open: 30, High: 40, Low: 25, Close: 35},
				{X: "2023-01-02", Open: 35, High: 45, Low: 30, Close: 40},
			},
		}
	case shared.Line:
		return categoryBody{
			Labels: []string{"Jan", "Feb", "Mar", "Apr"},
			Data:   []float64{10, 20, 30, 40},
		}
	case shared.Bar:
		return categoryBody{
			Labels: []string{"Product A", "Product B", "Product C"},
			Data:   []float64{100, 150, 200},
		}
	case shared.Pie:
		return categoryBody{
			Labels: []string{"Red", "Blue", "Yellow"},
			Data:   []float64{300, 50, 100},
		}
	default:
		return nil
	}
}
