package testdata

import (
	"fmt"
	"os"

	"api-batch-runner/internal/csvcodec"
)

// LoadRows reads a rows CSV file and parses it into header order and
// row mappings
func LoadRows(path string) ([]string, []csvcodec.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows file: %v", err)
	}

	headers, rows := csvcodec.Parse(string(data))
	if len(headers) == 0 {
		return nil, nil, fmt.Errorf("rows file %s has no header row", path)
	}
	return headers, rows, nil
}
