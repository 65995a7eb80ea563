package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "claude-sonnet-4-5")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err := NewClient("sk-test", "claude-sonnet-4-5")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestBuildEstimatePrompt(t *testing.T) {
	t.Run("with description", func(t *testing.T) {
		system, user := buildEstimatePrompt("Design new landing page", "Wireframes and mockups", 25)

		assert.Contains(t, system, "25 minutes")
		assert.Contains(t, system, `"sessions"`)
		assert.Contains(t, system, `"steps"`)
		assert.Contains(t, system, "JSON")

		assert.Contains(t, user, "Design new landing page")
		assert.Contains(t, user, "Wireframes and mockups")
	})

	t.Run("title only", func(t *testing.T) {
		_, user := buildEstimatePrompt("Evening run", "", 50)
		assert.Contains(t, user, "Evening run")
		assert.NotContains(t, user, "Description")
	})
}

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantSessions int
		wantSteps    int
	}{
		{"plain", `{"sessions": 3, "steps": ["a", "b"]}`, 3, 2},
		{"fenced", "```json\n{\"sessions\": 2, \"steps\": [\"x\"]}\n```", 2, 1},
		{"zero clamps up", `{"sessions": 0, "steps": []}`, 1, 0},
		{"huge clamps down", `{"sessions": 99}`, maxSessions, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := parseEstimate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSessions, est.Sessions)
			assert.Len(t, est.Steps, tt.wantSteps)
		})
	}
}

func TestParseEstimate_Invalid(t *testing.T) {
	_, err := parseEstimate("three sessions, probably")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raw response")
}
