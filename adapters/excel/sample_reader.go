package excel

import (
	"fmt"

	"curvefit/internal/parse"
)

// SampleReader extracts an (x, y) sample from two named columns of a spreadsheet
type SampleReader struct {
	reader *DataReader
}

// NewSampleReader creates a reader for an .xlsx or .csv file
func NewSampleReader(path string) *SampleReader {
	return &SampleReader{reader: NewDataReader(path)}
}

// Read returns the values of xColumn and yColumn, matched case-insensitively.
// Rows where either cell is blank are skipped. Cells follow the numeric parser's rules
// and must hold exactly one value.
func (r *SampleReader) Read(xColumn, yColumn string) (x, y []float64, err error) {
	table, err := r.reader.ReadData()
	if err != nil {
		return nil, nil, err
	}

	xi, ok := table.Column(xColumn)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found (headers: %v)", xColumn, table.Headers)
	}
	yi, ok := table.Column(yColumn)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found (headers: %v)", yColumn, table.Headers)
	}

	skipped := 0
	for i, row := range table.Rows {
		xs, ys := cell(row, xi), cell(row, yi)
		if xs == "" || ys == "" {
			skipped++
			continue
		}
		line := i + 2 // header is row 1
		xv, err := number(xs, line, xColumn)
		if err != nil {
			return nil, nil, err
		}
		yv, err := number(ys, line, yColumn)
		if err != nil {
			return nil, nil, err
		}
		x = append(x, xv)
		y = append(y, yv)
	}

	if skipped > 0 {
		r.reader.logger.Debug("[SampleReader] skipped %d rows with blank cells", skipped)
	}
	return x, y, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func number(text string, line int, column string) (float64, error) {
	values, err := parse.Numbers(text)
	if err != nil {
		return 0, fmt.Errorf("row %d, column %q: %w", line, column, err)
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("row %d, column %q: expected one number, got %q", line, column, text)
	}
	return values[0], nil
}
