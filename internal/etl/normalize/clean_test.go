package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty string", input: "", want: true},
		{name: "whitespace only", input: "   ", want: true},
		{name: "nan placeholder", input: "nan", want: true},
		{name: "nan placeholder uppercase", input: "NaN", want: true},
		{name: "bare comma", input: ",", want: true},
		{name: "bare dash", input: "-", want: true},
		{name: "punctuation run", input: "--,", want: true},
		{name: "real value", input: "Acme Lab", want: false},
		{name: "value containing nan", input: "nanotech", want: false},
		{name: "hyphenated value", input: "east-wing", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Acme Lab", Clean("  Acme Lab "))
	assert.Equal(t, "", Clean("nan"))
	assert.Equal(t, "", Clean(" , "))
}
