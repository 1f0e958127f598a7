package analysis

import (
	"strconv"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
)

// Bucket is one counted answer value.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable holds the per-question counts for a closed-form question.
type FrequencyTable struct {
	QuestionID   string              `json:"question_id"`
	QuestionText string              `json:"question_text"`
	Type         models.QuestionType `json:"type"`
	Buckets      []Bucket            `json:"buckets"`
}

// Tabulate counts answers for every closed-form question. Buckets are seeded
// at zero over the question's canonical domain so empty buckets stay visible;
// answers outside the domain are still counted, appended as extra buckets in
// first-seen order. Open-ended questions are not tabulated.
func Tabulate(survey models.SurveySnapshot, responses []models.ResponseModel) []FrequencyTable {
	answersByQuestion := make(map[string][]string)
	for _, r := range responses {
		for _, a := range r.Answers {
			answersByQuestion[a.QuestionID] = append(answersByQuestion[a.QuestionID], a.TextValue())
		}
	}

	tables := make([]FrequencyTable, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		var domain []string
		switch q.Type {
		case models.QuestionRatingScale:
			for v := models.RatingMin; v <= models.RatingMax; v++ {
				domain = append(domain, strconv.Itoa(v))
			}
		case models.QuestionMultipleChoice:
			domain = append(domain, q.Options...)
		default:
			continue
		}

		buckets := make([]Bucket, 0, len(domain))
		index := make(map[string]int, len(domain))
		for _, value := range domain {
			index[value] = len(buckets)
			buckets = append(buckets, Bucket{Value: value})
		}
		for _, observed := range answersByQuestion[q.ID] {
			i, ok := index[observed]
			if !ok {
				i = len(buckets)
				index[observed] = i
				buckets = append(buckets, Bucket{Value: observed})
			}
			buckets[i].Count++
		}

		tables = append(tables, FrequencyTable{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Type:         q.Type,
			Buckets:      buckets,
		})
	}
	return tables
}
