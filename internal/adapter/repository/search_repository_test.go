package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPatternEscapesLikeMetacharacters(t *testing.T) {
	tests := map[string]string{
		"budget":    "%budget%",
		"100%":      `%100\%%`,
		"snake_case": `%snake\_case%`,
		`C:\path`:   `%C:\\path%`,
		"予算":        "%予算%",
	}
	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), in)
	}
}
