package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AnswerKind tags the variant carried by an Answer.
type AnswerKind string

const (
	AnswerRating AnswerKind = "rating"
	AnswerText   AnswerKind = "text"
)

// Answer is a tagged variant: a 1-5 rating or free text, chosen by the
// originating question's declared type.
type Answer struct {
	QuestionID string     `json:"question_id"`
	Kind       AnswerKind `json:"kind"`
	Rating     int        `json:"rating,omitempty"`
	Text       string     `json:"text,omitempty"`
}

// TextValue renders the answer as display text regardless of kind.
func (a Answer) TextValue() string {
	if a.Kind == AnswerRating {
		return fmt.Sprintf("%d", a.Rating)
	}
	return a.Text
}

// AnswerList stores the ordered answer sequence as a JSON column.
type AnswerList []Answer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Answer(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *AnswerList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.AnswerList: Scan on nil pointer")
	}
	raw, err := rawJSONColumn(value)
	if err != nil {
		return fmt.Errorf("models.AnswerList: %w", err)
	}
	if raw == "" {
		*l = AnswerList{}
		return nil
	}
	var items []Answer
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// ResponseModel is one persona's completed answer sheet for a run. Created
// once per persona per run; replaced wholesale on re-run.
type ResponseModel struct {
	Base
	RunID     string     `json:"run_id"     gorm:"index;not null"`
	PersonaID string     `json:"persona_id" gorm:"index;not null"`
	Answers   AnswerList `json:"answers"    gorm:"type:longtext"`
}

func (ResponseModel) TableName() string { return "survey_responses" }
