package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"curvefit/domain/fit"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "sample.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSampleReader_Excel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Hours", "Score", "Note"},
		{1, 5, "a"},
		{2, 8.5, ""},
		{3, nil, "missing"},
		{4, 14},
	})

	x, y, err := NewSampleReader(path).Read("hours", "SCORE")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4}, x)
	assert.Equal(t, []float64{5, 8.5, 14}, y)
}

func TestSampleReader_CSV(t *testing.T) {
	path := writeCSV(t, "x,y\n1,2\n 2 , 4\n,\n3,6\n")

	x, y, err := NewSampleReader(path).Read("X", "Y")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{2, 4, 6}, y)
}

func TestSampleReader_Errors(t *testing.T) {
	path := writeCSV(t, "x,y\n1,2\n2,abc\n")

	_, _, err := NewSampleReader(path).Read("x", "y")
	require.Error(t, err)
	assert.ErrorIs(t, err, fit.ErrParse)
	assert.Contains(t, err.Error(), "row 3")

	_, _, err = NewSampleReader(path).Read("x", "z")
	assert.ErrorContains(t, err, `column "z" not found`)

	_, _, err = NewSampleReader(filepath.Join(t.TempDir(), "missing.xlsx")).Read("x", "y")
	assert.ErrorContains(t, err, "not found")

	headerOnly := writeCSV(t, "x,y\n")
	_, _, err = NewSampleReader(headerOnly).Read("x", "y")
	assert.Error(t, err)
}

func TestTable_Column(t *testing.T) {
	table := &Table{Headers: []string{"Time", "Value"}}
	i, ok := table.Column(" value ")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = table.Column("other")
	assert.False(t, ok)
}
