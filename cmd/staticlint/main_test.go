package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzers(t *testing.T) {
	names := make(map[string]bool)
	for _, a := range analyzers() {
		assert.False(t, names[a.Name], "duplicate analyzer %s", a.Name)
		names[a.Name] = true
	}

	for _, name := range []string{"printf", "shadow", "nilness", "SA4006", "S1000", "asciicheck", "noosexit"} {
		assert.True(t, names[name], "analyzer %s is missing", name)
	}
}
