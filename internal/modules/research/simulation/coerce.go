package simulation

import (
	"strconv"
	"strings"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
)

// neutralRating substitutes for an unparsable rating answer so one malformed
// field never discards an otherwise valid response sheet.
const neutralRating = 3

// Coerce types a raw textual answer according to its question. Rating answers
// parse to an integer, falling back to the neutral default; everything else
// passes through as text unchanged, even when a multiple-choice answer is not
// among the declared options.
func Coerce(q models.Question, raw string) models.Answer {
	if q.Type == models.QuestionRatingScale {
		rating := neutralRating
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			rating = v
		}
		return models.Answer{QuestionID: q.ID, Kind: models.AnswerRating, Rating: rating}
	}
	return models.Answer{QuestionID: q.ID, Kind: models.AnswerText, Text: raw}
}
