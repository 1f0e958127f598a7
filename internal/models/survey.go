package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuestionType enumerates the supported question forms.
type QuestionType string

const (
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRatingScale    QuestionType = "rating_scale"
)

// Rating questions use a fixed 1-5 integer domain.
const (
	RatingMin = 1
	RatingMax = 5
)

// Question is one survey item. Options are meaningful only for multiple
// choice, where they must be non-empty.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options StringArray  `json:"options,omitempty"`
}

// QuestionList stores the ordered question sequence as a JSON column.
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Question(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *QuestionList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.QuestionList: Scan on nil pointer")
	}
	raw, err := rawJSONColumn(value)
	if err != nil {
		return fmt.Errorf("models.QuestionList: %w", err)
	}
	if raw == "" {
		*l = QuestionList{}
		return nil
	}
	var items []Question
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// SurveyModel is a user-authored survey definition. It persists across runs;
// only responses and analyses are regenerated per run.
type SurveyModel struct {
	Base
	Title       string       `json:"title"       gorm:"not null"`
	Description string       `json:"description" gorm:"type:text"`
	Questions   QuestionList `json:"questions"   gorm:"type:longtext"`
}

func (SurveyModel) TableName() string { return "surveys" }

// Snapshot returns the value copy embedded into templates and prompts.
func (m *SurveyModel) Snapshot() SurveySnapshot {
	questions := make([]Question, len(m.Questions))
	copy(questions, m.Questions)
	for i := range questions {
		opts := make(StringArray, len(m.Questions[i].Options))
		copy(opts, m.Questions[i].Options)
		questions[i].Options = opts
	}
	return SurveySnapshot{
		Title:       m.Title,
		Description: m.Description,
		Questions:   questions,
	}
}

// SurveySnapshot is a survey definition frozen by value, detached from the
// stored row. Templates hold one; prompt builders consume one.
type SurveySnapshot struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// SurveyTemplateModel is a named, reusable survey snapshot.
type SurveyTemplateModel struct {
	Base
	Name     string         `json:"name"     gorm:"not null"`
	Snapshot SurveySnapshot `json:"snapshot" gorm:"type:longtext;serializer:json"`
}

func (SurveyTemplateModel) TableName() string { return "survey_templates" }
