package prompt

import (
	"strings"
	"testing"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSurvey() models.SurveySnapshot {
	return models.SurveySnapshot{
		Title:       "Coffee App Concept",
		Description: "A subscription app for specialty coffee.",
		Questions: []models.Question{
			{ID: "q1", Text: "What do you think of the idea?", Type: models.QuestionOpenEnded},
			{ID: "q2", Text: "Would you subscribe?", Type: models.QuestionMultipleChoice, Options: models.StringArray{"Yes", "No", "Maybe"}},
			{ID: "q3", Text: "Rate your interest", Type: models.QuestionRatingScale},
		},
	}
}

func samplePersona() models.Persona {
	return models.Persona{
		ID:         "p1",
		Name:       "Dana",
		Age:        34,
		Occupation: "Graphic designer",
		Traits:     "Curious, budget conscious",
		PainPoints: "Hates waiting in line",
	}
}

func TestSimulationSpecDeterministic(t *testing.T) {
	survey := sampleSurvey()
	persona := samplePersona()

	first := SimulationSpec(survey, persona)
	second := SimulationSpec(survey, persona)

	assert.Equal(t, first.System, second.System)
	assert.Equal(t, first.Prompt, second.Prompt)
	assert.Equal(t, first.Shape, second.Shape)
}

func TestSimulationSpecContent(t *testing.T) {
	spec := SimulationSpec(sampleSurvey(), samplePersona())

	assert.Contains(t, spec.System, "Output MUST be valid JSON")
	assert.Contains(t, spec.System, spec.Shape.Instruction())

	assert.Contains(t, spec.Prompt, "Name: Dana")
	assert.Contains(t, spec.Prompt, "Age: 34")
	assert.Contains(t, spec.Prompt, "Pain points: Hates waiting in line")
	assert.Contains(t, spec.Prompt, "Title: Coffee App Concept")
	assert.Contains(t, spec.Prompt, `(choose exactly one of: "Yes", "No", "Maybe")`)
	assert.Contains(t, spec.Prompt, "(rate 1-5")
	assert.Contains(t, spec.Prompt, "(open-ended)")
	assert.Contains(t, spec.Prompt, "[q2]")
}

func TestPanelSpec(t *testing.T) {
	spec := PanelSpec("  urban cyclists aged 20-35  ", 4)

	assert.Equal(t, "AUDIENCE: urban cyclists aged 20-35\nCOUNT: 4", spec.Prompt)
	assert.Contains(t, spec.System, spec.Shape.Instruction())
	assert.Equal(t, spec, PanelSpec("  urban cyclists aged 20-35  ", 4))
}

func TestAnalysisSpecTranscript(t *testing.T) {
	survey := sampleSurvey()
	transcript := []TranscriptEntry{
		{
			Persona: samplePersona(),
			Answers: []models.Answer{
				{QuestionID: "q1", Kind: models.AnswerText, Text: "Love it."},
				{QuestionID: "q3", Kind: models.AnswerRating, Rating: 5},
			},
		},
		{
			Persona: models.Persona{ID: "p2", Name: "Eli", Age: 41, Occupation: "Teacher"},
			Answers: []models.Answer{
				{QuestionID: "q1", Kind: models.AnswerText, Text: "Not for me."},
			},
		},
	}

	spec := AnalysisSpec(survey, transcript)
	require.Contains(t, spec.System, "sentiment")

	rendered := RenderTranscript(survey, transcript)
	assert.Contains(t, rendered, "### Dana (34, Graphic designer)")
	assert.Contains(t, rendered, "### Eli (41, Teacher)")
	assert.Contains(t, rendered, "Q: What do you think of the idea?\nA: Love it.")
	assert.Contains(t, rendered, "A: 5", "rating answers render as digits")

	assert.Less(t, strings.Index(rendered, "### Dana"), strings.Index(rendered, "### Eli"),
		"panel order preserved")

	assert.Contains(t, spec.Prompt, rendered)
	assert.Contains(t, spec.Prompt, "Questions: 3, Respondents: 2")
}

func TestAnalysisShapeSentimentEnum(t *testing.T) {
	shape := AnalysisShape()
	assert.Contains(t, shape.Instruction(), `"Positive" | "Neutral" | "Negative"`)
}
