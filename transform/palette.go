package transform

const (
	// defaultColor is the border and background colour of non-pie datasets.
	defaultColor = "rgba(0, 0, 0, 0.1)"
)

// piePalette is the fixed set of slice colours.
var piePalette = []string{
	"rgba(255, 99, 132, 0.2)",
	"rgba(54, 162, 235, 0.2)",
	"rgba(255, 206, 86, 0.2)",
}

// sliceColors assigns a palette colour to each of n slices, cycling the
// palette when there are more slices than colours.
func sliceColors(n int) []string {
	colors := make([]string, n)
	for idx := range colors {
		colors[idx] = piePalette[idx%len(piePalette)]
	}

	return colors
}
