package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Persona is a synthetic respondent profile. The active panel of a run holds
// value copies; a library persona and a panel persona are linked only by ID
// equality, never by shared reference.
type Persona struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Occupation string `json:"occupation"`
	Traits     string `json:"traits"`
	PainPoints string `json:"pain_points"`
}

// PersonaList stores an ordered panel as a JSON column.
type PersonaList []Persona

func (l PersonaList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Persona(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *PersonaList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.PersonaList: Scan on nil pointer")
	}
	raw, err := rawJSONColumn(value)
	if err != nil {
		return fmt.Errorf("models.PersonaList: %w", err)
	}
	if raw == "" {
		*l = PersonaList{}
		return nil
	}
	var items []Persona
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// PersonaModel is a durable, user-curated library persona.
type PersonaModel struct {
	Base
	Name       string `json:"name"        gorm:"not null"`
	Age        int    `json:"age"`
	Occupation string `json:"occupation"`
	Traits     string `json:"traits"      gorm:"type:text"`
	PainPoints string `json:"pain_points" gorm:"type:text"`
}

func (PersonaModel) TableName() string { return "personas" }

// AsPersona returns the value copy used when a library persona joins a panel.
func (m *PersonaModel) AsPersona() Persona {
	return Persona{
		ID:         m.ID,
		Name:       m.Name,
		Age:        m.Age,
		Occupation: m.Occupation,
		Traits:     m.Traits,
		PainPoints: m.PainPoints,
	}
}
