package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstline-systems/calltriage/analysis"
)

func requireStrictObject(t *testing.T, schema map[string]interface{}, wantProps []string) {
	t.Helper()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema has no properties map")
	for _, p := range wantProps {
		assert.Contains(t, props, p)
	}

	required, ok := schema["required"].([]string)
	require.True(t, ok, "schema has no required list")
	assert.ElementsMatch(t, wantProps, required)
}

func TestEmotionSchemaIsStrict(t *testing.T) {
	t.Parallel()
	requireStrictObject(t, emotionSchema, []string{
		"primary_emotion", "secondary_emotion", "intensity", "confidence", "reasoning",
	})
}

func TestSituationSchemaIsStrict(t *testing.T) {
	t.Parallel()
	requireStrictObject(t, situationSchema, []string{
		"category", "severity", "key_details", "recommended_actions", "required_resources",
		"confidence", "reasoning",
	})
}

func TestEnsureOpenAIComplianceRecursesIntoNestedSchemas(t *testing.T) {
	t.Parallel()

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"inner": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"leaf": map[string]interface{}{"type": "string"},
				},
			},
			"list": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"x": map[string]interface{}{"type": "number"},
					},
				},
			},
		},
	}
	ensureOpenAICompliance(schema)

	assert.Equal(t, false, schema["additionalProperties"])
	inner := schema["properties"].(map[string]interface{})["inner"].(map[string]interface{})
	assert.Equal(t, false, inner["additionalProperties"])
	assert.ElementsMatch(t, []string{"leaf"}, inner["required"])

	items := schema["properties"].(map[string]interface{})["list"].(map[string]interface{})["items"].(map[string]interface{})
	assert.Equal(t, false, items["additionalProperties"])
}

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Fear", "fear"},
		{"  PANIC  ", "panic"},
		{"life threatening", "life_threatening"},
		{"de escalating", "de_escalating"},
		{"none", ""},
		{"N/A", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeLabel(tc.in), "input %q", tc.in)
	}
}

func TestTrimAll(t *testing.T) {
	t.Parallel()

	got := trimAll([]string{" ambulance ", "", "  ", "fire_engine"})
	assert.Equal(t, []string{"ambulance", "fire_engine"}, got)
	assert.Empty(t, trimAll(nil))
}

func TestBuildEmotionInput(t *testing.T) {
	t.Parallel()

	in := buildEmotionInput(analysis.TextJudgmentRequest{Message: "help me"})
	assert.Contains(t, in, `MESSAGE: "help me"`)
	assert.NotContains(t, in, "HISTORY")

	in = buildEmotionInput(analysis.TextJudgmentRequest{Message: "help me", HistorySummary: "t=1.0 fear/high"})
	assert.Contains(t, in, "RECENT EMOTION HISTORY")
	assert.Contains(t, in, "t=1.0 fear/high")
}

func TestBuildSituationInput(t *testing.T) {
	t.Parallel()

	req := analysis.SituationJudgmentRequest{
		Message: "the house is on fire",
		Emotion: analysis.EmotionAssessment{
			PrimaryEmotion:   analysis.EmotionPanic,
			SecondaryEmotion: analysis.EmotionFear,
			Intensity:        analysis.IntensityExtreme,
			Confidence:       0.91,
		},
	}
	in := buildSituationInput(req)
	assert.Contains(t, in, `MESSAGE: "the house is on fire"`)
	assert.Contains(t, in, "primary emotion: panic")
	assert.Contains(t, in, "intensity: extreme")
	assert.Contains(t, in, "secondary emotion: fear")
	assert.Contains(t, in, "confidence: 0.91")
}
