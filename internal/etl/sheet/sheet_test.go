package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a single-sheet xlsx file for tests.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"PI Email", "Type", "Ignored Column"},
		{"  Acme Lab ", "local", "junk"},
		{"", "", ""},
		{"Beta Lab", "industrial", ""},
	})

	rows, err := ReadRows(path, AccountAliases)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Lab", rows[0][ColAccountName])
	assert.Equal(t, "local", rows[0][ColAccountType])
	assert.Equal(t, "Beta Lab", rows[1][ColAccountName])

	// Unrecognized columns are not carried through.
	_, present := rows[0]["Ignored Column"]
	assert.False(t, present)
}

func TestReadRows_ExactMatchBeatsSubstring(t *testing.T) {
	// "Rate Name" contains "rate", the alias of the amount column. The
	// exact pass has to claim "Rate" for the amount before the substring
	// pass runs.
	path := writeWorkbook(t, [][]any{
		{"Rate Name", "Rate Class", "Rate"},
		{"equipment_hourly_rate", "local", "$12.50"},
	})

	rows, err := ReadRows(path, RateAliases)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "equipment_hourly_rate", rows[0][ColRateName])
	assert.Equal(t, "local", rows[0][ColRateClass])
	assert.Equal(t, "$12.50", rows[0][ColRateAmount])
}

func TestReadRows_HeaderCaseAndSpacing(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"  first  NAME ", "Last Name", "Member"},
		{"Jane", "Doe", "jane.doe@stanford.edu"},
	})

	rows, err := ReadRows(path, UserAliases)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Jane", rows[0][ColFirstName])
	assert.Equal(t, "Doe", rows[0][ColLastName])
	assert.Equal(t, "jane.doe@stanford.edu", rows[0][ColEmail])
}

func TestReadRows_NoRecognizedColumns(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Foo", "Bar"},
		{"1", "2"},
	})

	_, err := ReadRows(path, AccountAliases)
	assert.Error(t, err)
}

func TestReadRows_HeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"PI Email", "Type"},
	})

	rows, err := ReadRows(path, AccountAliases)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.xlsx"), AccountAliases)
	assert.Error(t, err)
}
