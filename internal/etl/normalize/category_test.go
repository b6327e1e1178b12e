package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCategory(t *testing.T) {
	tests := []struct {
		name   string
		legacy string
		want   Category
	}{
		{name: "local", legacy: "local", want: CategoryLocalAcademic},
		{name: "local case-insensitive", legacy: "LOCAL", want: CategoryLocalAcademic},
		{name: "local with whitespace", legacy: "  Local ", want: CategoryLocalAcademic},
		{name: "industrial", legacy: "industrial", want: CategoryIndustrial},
		{name: "no charge", legacy: "No Charge", want: CategoryNoCharge},
		{name: "other academic", legacy: "Other Academic", want: CategoryOtherAcademic},
		{name: "industrial-sbir", legacy: "Industrial-SBIR", want: CategoryIndustrialSBIR},
		{name: "foreign maps to default", legacy: "foreign", want: CategoryOtherAcademic},
		{name: "unknown maps to default", legacy: "whatever", want: CategoryOtherAcademic},
		{name: "empty maps to default", legacy: "", want: CategoryOtherAcademic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapCategory(tt.legacy))
		})
	}
}
