package persona

import (
	"time"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
)

type CreatePersonaDTO struct {
	Name       string `json:"name" binding:"required"`
	Age        int    `json:"age"  binding:"required,gte=1"`
	Occupation string `json:"occupation"`
	Traits     string `json:"traits"`
	PainPoints string `json:"pain_points"`
}

type UpdatePersonaDTO struct {
	Name       *string `json:"name"`
	Age        *int    `json:"age"`
	Occupation *string `json:"occupation"`
	Traits     *string `json:"traits"`
	PainPoints *string `json:"pain_points"`
}

type personaResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Occupation string    `json:"occupation"`
	Traits     string    `json:"traits"`
	PainPoints string    `json:"pain_points"`
	Created    time.Time `json:"created"`
	Modified   time.Time `json:"modified"`
}

func toResponse(m *models.PersonaModel) personaResponse {
	return personaResponse{
		ID:         m.ID,
		Name:       m.Name,
		Age:        m.Age,
		Occupation: m.Occupation,
		Traits:     m.Traits,
		PainPoints: m.PainPoints,
		Created:    m.CreatedAt,
		Modified:   m.UpdatedAt,
	}
}
