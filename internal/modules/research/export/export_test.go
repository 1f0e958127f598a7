package export

import (
	"strings"
	"testing"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSVQuoting(t *testing.T) {
	panel := models.PersonaList{{ID: "p1", Name: `Dana "Dee" Smith`}}
	survey := models.SurveySnapshot{
		Questions: []models.Question{
			{ID: "q1", Text: "Thoughts, please", Type: models.QuestionOpenEnded},
			{ID: "q2", Text: "Rate it", Type: models.QuestionRatingScale},
		},
	}
	responses := []models.ResponseModel{
		{
			PersonaID: "p1",
			Answers: models.AnswerList{
				{QuestionID: "q1", Kind: models.AnswerText, Text: `It's "fine", I guess`},
				{QuestionID: "q2", Kind: models.AnswerRating, Rating: 4},
			},
		},
	}

	out, err := renderCSV(panel, survey, responses)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Persona,"Thoughts, please",Rate it`, lines[0], "embedded comma forces quoting")
	assert.Equal(t, `"Dana ""Dee"" Smith","It's ""fine"", I guess",4`, lines[1], "internal quotes doubled")
}

func TestRenderCSVMissingAnswerLeftEmpty(t *testing.T) {
	panel := models.PersonaList{{ID: "p1", Name: "Dana"}}
	survey := models.SurveySnapshot{
		Questions: []models.Question{
			{ID: "q1", Text: "One", Type: models.QuestionOpenEnded},
			{ID: "q2", Text: "Two", Type: models.QuestionOpenEnded},
		},
	}
	responses := []models.ResponseModel{
		{PersonaID: "p1", Answers: models.AnswerList{{QuestionID: "q2", Kind: models.AnswerText, Text: "only this"}}},
	}

	out, err := renderCSV(panel, survey, responses)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Dana,,only this", lines[1])
}

func TestRenderReport(t *testing.T) {
	run := &models.RunModel{
		Panel:     models.PersonaList{{ID: "p1"}, {ID: "p2"}},
		Completed: 2,
		Failures:  0,
	}
	survey := models.SurveySnapshot{Title: "Coffee App"}
	report := &models.AnalysisModel{
		Sentiment:   models.SentimentPositive,
		Summary:     "Panel liked it.",
		KeyInsights: models.StringArray{"Price matters"},
		Suggestions: models.StringArray{"Add a trial tier"},
	}

	out := string(renderReport(run, survey, report))

	assert.Contains(t, out, "Market Research Report: Coffee App")
	assert.Contains(t, out, "Panel: 2 personas, 2 responses, 0 failures")
	assert.Contains(t, out, "Overall sentiment: Positive")
	assert.Contains(t, out, "Panel liked it.")
	assert.Contains(t, out, "- Price matters")
	assert.Contains(t, out, "- Add a trial tier")
}
