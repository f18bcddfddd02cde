package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportsModel(t *testing.T) {
	for _, id := range SupportedModels() {
		assert.True(t, SupportsModel(id), id)
	}

	for _, id := range []string{
		"",
		"gemini",
		"gemini-2.5",
		"gemini-2.5-flash ",
		"Gemini-2.5-Flash",
		"gemini-2.5-flash-latest",
		"gpt-4o",
	} {
		assert.False(t, SupportsModel(id), id)
	}
}

func TestDefaultModelIsSupported(t *testing.T) {
	assert.True(t, SupportsModel(DefaultModel))
}
