package survey

import (
	"time"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
)

type QuestionDTO struct {
	ID      string              `json:"id"`
	Text    string              `json:"text" binding:"required"`
	Type    models.QuestionType `json:"type" binding:"required"`
	Options []string            `json:"options"`
}

type CreateSurveyDTO struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Questions   []QuestionDTO `json:"questions"`
}

type UpdateSurveyDTO struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Questions   *[]QuestionDTO `json:"questions"`
}

type SaveTemplateDTO struct {
	Name string `json:"name" binding:"required"`
}

type surveyResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions"`
	Created     time.Time         `json:"created"`
	Modified    time.Time         `json:"modified"`
}

type templateResponse struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Snapshot models.SurveySnapshot `json:"snapshot"`
	Created  time.Time             `json:"created"`
}

func toResponse(m *models.SurveyModel) surveyResponse {
	questions := m.Questions
	if questions == nil {
		questions = models.QuestionList{}
	}
	return surveyResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Questions:   questions,
		Created:     m.CreatedAt,
		Modified:    m.UpdatedAt,
	}
}

func toTemplateResponse(m *models.SurveyTemplateModel) templateResponse {
	return templateResponse{
		ID:       m.ID,
		Name:     m.Name,
		Snapshot: m.Snapshot,
		Created:  m.CreatedAt,
	}
}
