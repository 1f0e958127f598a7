package simulation

import (
	"testing"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCoerceRating(t *testing.T) {
	q := models.Question{ID: "q1", Type: models.QuestionRatingScale}

	assert.Equal(t, models.Answer{QuestionID: "q1", Kind: models.AnswerRating, Rating: 4}, Coerce(q, "4"))
	assert.Equal(t, 4, Coerce(q, " 4 ").Rating, "surrounding whitespace tolerated")
	assert.Equal(t, 3, Coerce(q, "not-a-number").Rating, "unparsable falls back to neutral default")
	assert.Equal(t, 3, Coerce(q, "").Rating)
	assert.Equal(t, 7, Coerce(q, "7").Rating, "out-of-domain integers pass through; tabulation handles them")
}

func TestCoerceTextPassThrough(t *testing.T) {
	open := models.Question{ID: "q2", Type: models.QuestionOpenEnded}
	assert.Equal(t, models.Answer{QuestionID: "q2", Kind: models.AnswerText, Text: "I like it"}, Coerce(open, "I like it"))

	mc := models.Question{ID: "q3", Type: models.QuestionMultipleChoice, Options: models.StringArray{"Yes", "No"}}
	got := Coerce(mc, "Probably")
	assert.Equal(t, models.AnswerText, got.Kind)
	assert.Equal(t, "Probably", got.Text, "out-of-domain choice accepted unchanged")
}
