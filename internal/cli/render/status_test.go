package render

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStatusLines(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	assert.Equal(t, "✅ Bridge deployed", FormatSuccess("Bridge deployed"))
	assert.Equal(t, "⚠️  Deployment cancelled", FormatWarning("Deployment cancelled"))
	assert.Equal(t, "❌ Failed to load bridge config: missing", FormatError("failed to load bridge config: missing"))
	assert.Equal(t, "❌ ", FormatError(""))
}
