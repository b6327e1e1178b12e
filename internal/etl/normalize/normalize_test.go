package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nemoctl/internal/etl/sheet"
)

func TestAccounts(t *testing.T) {
	rows := []sheet.Row{
		{sheet.ColAccountName: "  Acme Lab ", sheet.ColAccountType: "local"},
		{sheet.ColAccountName: "acme lab", sheet.ColAccountType: "industrial"}, // dup, first wins
		{sheet.ColAccountName: "nan", sheet.ColAccountType: "local"},
		{sheet.ColAccountName: "Beta Lab"},
	}

	res := Accounts(rows)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)

	assert.Equal(t, "Acme Lab", res.Records[0].Name)
	assert.Equal(t, CategoryLocalAcademic, res.Records[0].Category)

	// Missing type falls back to the default category.
	assert.Equal(t, "Beta Lab", res.Records[1].Name)
	assert.Equal(t, CategoryOtherAcademic, res.Records[1].Category)
}

func TestProjects(t *testing.T) {
	rows := []sheet.Row{
		{sheet.ColPTA: "PTA-1", sheet.ColProjectName: "Widgets", sheet.ColAccountName: "Acme Lab", sheet.ColAccountType: "industrial"},
		{sheet.ColPTA: "pta-1", sheet.ColProjectName: "Widgets Again", sheet.ColAccountName: "Acme Lab"}, // dup PTA
		{sheet.ColPTA: "PTA-2", sheet.ColProjectName: "", sheet.ColAccountName: "Acme Lab"},              // no name
		{sheet.ColPTA: "", sheet.ColProjectName: "Orphan", sheet.ColAccountName: "Acme Lab"},             // no PTA
	}

	res := Projects(rows)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, "PTA-1", res.Records[0].PTA)
	assert.Equal(t, "Acme Lab", res.Records[0].AccountName)
	assert.Equal(t, CategoryIndustrial, res.Records[0].Category)
}

func TestUsers(t *testing.T) {
	rows := []sheet.Row{
		{sheet.ColEmail: "Jane.Doe@stanford.edu", sheet.ColFirstName: "Jane", sheet.ColLastName: "Doe", sheet.ColPTA: "PTA-1"},
		{sheet.ColEmail: "jane.doe@stanford.edu", sheet.ColFirstName: "Jane", sheet.ColLastName: "Doe", sheet.ColPTA: "PTA-2"},
		{sheet.ColEmail: "jane.doe@stanford.edu", sheet.ColFirstName: "Jane", sheet.ColLastName: "Doe", sheet.ColPTA: "pta-2"}, // dup membership
		{sheet.ColEmail: "not-an-email", sheet.ColFirstName: "Bad", sheet.ColLastName: "Row"},
		{sheet.ColEmail: "solo@stanford.edu", sheet.ColFirstName: "Solo", sheet.ColLastName: "User"},
	}

	res := Users(rows)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)

	jane := res.Records[0]
	assert.Equal(t, "jane.doe", jane.Username)
	assert.Equal(t, "Jane.Doe@stanford.edu", jane.Email)
	// Memberships from duplicate rows fold into the first occurrence.
	assert.Equal(t, []string{"PTA-1", "PTA-2"}, jane.ProjectPTAs)

	solo := res.Records[1]
	assert.Equal(t, "solo", solo.Username)
	assert.Empty(t, solo.ProjectPTAs)
}

func TestTools(t *testing.T) {
	sheets := []FacilitySheet{
		{Facility: "SNC", Rows: []sheet.Row{
			{sheet.ColToolName: "AFM", sheet.ColLocation: "B12"},
			{sheet.ColToolName: "nan"},
		}},
		{Facility: "SNL", Rows: []sheet.Row{
			{sheet.ColToolName: "afm", sheet.ColLocation: "elsewhere"}, // dup across facilities
			{sheet.ColToolName: "SEM"},
		}},
	}

	res := Tools(sheets)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)

	assert.Equal(t, "AFM", res.Records[0].Name)
	assert.Equal(t, "SNC", res.Records[0].Facility)
	assert.Equal(t, "B12", res.Records[0].Location)

	assert.Equal(t, "SEM", res.Records[1].Name)
	assert.Equal(t, "SNL", res.Records[1].Facility)
}

func TestRates(t *testing.T) {
	rows := []sheet.Row{
		{sheet.ColRateName: "equipment_hourly_rate", sheet.ColRateClass: "local", sheet.ColRateAmount: "$12.50"},
		{sheet.ColRateName: "equipment_hourly_rate", sheet.ColRateClass: "industrial", sheet.ColRateAmount: "100"},
		{sheet.ColRateName: "equipment_hourly_rate", sheet.ColRateClass: "local", sheet.ColRateAmount: "$99"}, // dup pair
		{sheet.ColRateName: "equipment_staff_rate", sheet.ColRateClass: "local", sheet.ColRateAmount: "abc"},  // bad amount
	}

	res := Rates(rows)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 12.50, res.Records[0].Amount)
	assert.Equal(t, "equipment_hourly_rate|local", res.Records[0].Key())
	assert.Equal(t, 100.0, res.Records[1].Amount)
}

func TestInterlocks(t *testing.T) {
	rows := []sheet.Row{
		{sheet.ColToolName: "AFM", sheet.ColHostname: "relay1.example.edu", sheet.ColPort: "2101.0"},
		{sheet.ColToolName: "SEM", sheet.ColHostname: "relay1.example.edu", sheet.ColPort: "2101"}, // same card
		{sheet.ColToolName: "FIB", sheet.ColHostname: "relay2.example.edu", sheet.ColPort: "80"},
		{sheet.ColToolName: "Bad", sheet.ColHostname: "relay3.example.edu", sheet.ColPort: "x"},
	}

	res := Interlocks(rows)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 2101, res.Records[0].Port)
	assert.Equal(t, "relay1.example.edu:2101", res.Records[0].Key())
	assert.Equal(t, 80, res.Records[1].Port)
}
