package fixture

import (
	"fmt"
	"os"

	"github.com/dnldd/chartboard/shared"
	"github.com/tidwall/gjson"
)

// loadSampleFile loads the sample file bytes from the provided file path.
func loadSampleFile(filepath string) (*gjson.Result, error) {
	readb, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading samples from file with path '%s': %v", filepath, err)
	}

	if !gjson.ValidBytes(readb) {
		return nil, fmt.Errorf("samples file '%s' is not valid json", filepath)
	}

	b := gjson.ParseBytes(readb)
	if !b.IsObject() {
		return nil, fmt.Errorf("samples file '%s' must hold a json object", filepath)
	}

	return &b, nil
}

// LoadSamples reads per kind response bodies from a json file keyed by chart
// kind name, e.g. {"line": {"labels": [...], "data": [...]}, "pie": null}.
// Kinds missing from the file keep the built in samples.
func LoadSamples(filepath string) (map[shared.ChartKind]string, error) {
	b, err := loadSampleFile(filepath)
	if err != nil {
		return nil, err
	}

	samples := make(map[shared.ChartKind]string)
	var errs []string
	b.ForEach(func(key, value gjson.Result) bool {
		kind, err := shared.ParseChartKind(key.String())
		if err != nil {
			errs = append(errs, err.Error())
			return true
		}

		if !value.IsObject() && value.Type != gjson.Null {
			errs = append(errs, fmt.Sprintf("%s sample must be an object or null", kind.String()))
			return true
		}

		samples[kind] = value.Raw
		return true
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("parsing samples file '%s': %v", filepath, errs)
	}

	return samples, nil
}
