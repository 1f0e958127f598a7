package survey

import (
	"encoding/json"
	"testing"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuestionsAssignsAndChecksIDs(t *testing.T) {
	questions, err := buildQuestions([]QuestionDTO{
		{Text: "First?", Type: models.QuestionOpenEnded},
		{ID: "q2", Text: "Second?", Type: models.QuestionRatingScale},
	})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.NotEmpty(t, questions[0].ID, "blank id gets generated")
	assert.Equal(t, "q2", questions[1].ID)

	_, err = buildQuestions([]QuestionDTO{
		{ID: "dup", Text: "A?", Type: models.QuestionOpenEnded},
		{ID: "dup", Text: "B?", Type: models.QuestionOpenEnded},
	})
	require.ErrorIs(t, err, ErrInvalidQuestions)
}

func TestBuildQuestionsMultipleChoiceOptions(t *testing.T) {
	_, err := buildQuestions([]QuestionDTO{
		{Text: "Pick one", Type: models.QuestionMultipleChoice},
	})
	require.ErrorIs(t, err, ErrInvalidQuestions, "multiple choice needs options")

	_, err = buildQuestions([]QuestionDTO{
		{Text: "Pick one", Type: models.QuestionMultipleChoice, Options: []string{"  ", ""}},
	})
	require.ErrorIs(t, err, ErrInvalidQuestions, "blank options do not count")

	questions, err := buildQuestions([]QuestionDTO{
		{Text: "Pick one", Type: models.QuestionMultipleChoice, Options: []string{" Yes ", "No"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{"Yes", "No"}, questions[0].Options)
}

func TestBuildQuestionsRejectsUnknownType(t *testing.T) {
	_, err := buildQuestions([]QuestionDTO{{Text: "Hm", Type: "ranking"}})
	require.ErrorIs(t, err, ErrInvalidQuestions)
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	m := models.SurveyModel{
		Title:       "Original",
		Description: "Desc",
		Questions: models.QuestionList{
			{ID: "q1", Text: "Pick", Type: models.QuestionMultipleChoice, Options: models.StringArray{"A", "B"}},
		},
	}

	snap := m.Snapshot()

	m.Questions[0].Text = "Changed"
	m.Questions[0].Options[0] = "Z"

	assert.Equal(t, "Pick", snap.Questions[0].Text)
	assert.Equal(t, "A", snap.Questions[0].Options[0], "options are copied, not shared")
}

func TestTemplateSnapshotRoundTrip(t *testing.T) {
	original := models.SurveySnapshot{
		Title:       "Coffee App",
		Description: "Subscription concept",
		Questions: []models.Question{
			{ID: "q1", Text: "Thoughts?", Type: models.QuestionOpenEnded},
			{ID: "q2", Text: "Pick one", Type: models.QuestionMultipleChoice, Options: models.StringArray{"Yes", "No"}},
			{ID: "q3", Text: "Rate it", Type: models.QuestionRatingScale},
		},
	}

	// Templates persist through the JSON serializer; saving and reloading
	// must reproduce the snapshot field by field.
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var reloaded models.SurveySnapshot
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.Equal(t, original, reloaded)
}
