package normalize

import "strings"

// Category is a destination-side rate category name. Account and project
// types resolve against the rate-category lookup by this name.
type Category string

const (
	CategoryLocalAcademic  Category = "Local/Academic"
	CategoryIndustrial     Category = "Industrial"
	CategoryNoCharge       Category = "No Charge"
	CategoryOtherAcademic  Category = "Other Academic"
	CategoryIndustrialSBIR Category = "Industrial-SBIR"
)

// categoryTable maps the legacy free-text type strings to destination
// categories. "foreign" deliberately lands on the default; see DESIGN.md.
var categoryTable = map[string]Category{
	"local":           CategoryLocalAcademic,
	"industrial":      CategoryIndustrial,
	"no charge":       CategoryNoCharge,
	"other academic":  CategoryOtherAcademic,
	"industrial-sbir": CategoryIndustrialSBIR,
	"foreign":         CategoryOtherAcademic,
}

// MapCategory maps a legacy account/project type string to its destination
// category. Unrecognized input never fails; it falls back to the documented
// default, Other Academic.
func MapCategory(legacy string) Category {
	key := strings.ToLower(strings.TrimSpace(legacy))
	if c, ok := categoryTable[key]; ok {
		return c
	}
	return CategoryOtherAcademic
}
