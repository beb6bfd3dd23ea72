package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolation_JSONMarshaling(t *testing.T) {
	slideID := 3
	violation := Violation{
		Type:     "bullet_count",
		Severity: SeverityWarning,
		Details:  "slide has 7 bullets",
		SlideID:  &slideID,
	}

	jsonBytes, err := json.MarshalIndent(violation, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"type": "bullet_count"`)
	assert.Contains(t, string(jsonBytes), `"severity": "warning"`)
	assert.Contains(t, string(jsonBytes), `"slide_id": 3`)

	var unmarshaled Violation
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	require.NotNil(t, unmarshaled.SlideID)
	assert.Equal(t, 3, *unmarshaled.SlideID)
}

func TestViolation_OmitsSlideID(t *testing.T) {
	jsonBytes, err := json.Marshal(Violation{Type: "content_count", Severity: SeverityWarning})
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "slide_id")
}

func TestViolations_HasErrors(t *testing.T) {
	assert.False(t, Violations{}.HasErrors())
	assert.False(t, Violations{Violations: []Violation{{Severity: SeverityWarning}}}.HasErrors())
	assert.True(t, Violations{Violations: []Violation{{Severity: SeverityWarning}, {Severity: SeverityError}}}.HasErrors())
}
