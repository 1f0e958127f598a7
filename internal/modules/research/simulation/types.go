package simulation

import (
	"errors"
	"time"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/taskqueue"
)

var (
	ErrRunNotReady     = errors.New("run is not ready for this step")
	ErrPanelEmpty      = errors.New("panel is empty")
	ErrPersonasMissing = errors.New("some personas were not found in the library")
)

type CreateRunDTO struct {
	Audience string `json:"audience"`
}

type GeneratePanelDTO struct {
	Audience string `json:"audience"`
	Count    int    `json:"count"`
}

type PanelPersonaDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name" binding:"required"`
	Age        int    `json:"age"  binding:"required,gte=1"`
	Occupation string `json:"occupation"`
	Traits     string `json:"traits"`
	PainPoints string `json:"pain_points"`
}

// SetPanelDTO curates a panel by hand: library picks (copied by value) plus
// ad-hoc personas, in that order.
type SetPanelDTO struct {
	PersonaIDs []string          `json:"persona_ids"`
	Personas   []PanelPersonaDTO `json:"personas"`
}

type runResponse struct {
	ID        string           `json:"id"`
	SurveyID  string           `json:"survey_id"`
	State     models.RunState  `json:"state"`
	Audience  string           `json:"audience"`
	Panel     []models.Persona `json:"panel"`
	Completed int              `json:"completed"`
	Failures  int              `json:"failures"`
	Progress  int              `json:"progress"`
	TaskID    string           `json:"task_id,omitempty"`
	Created   time.Time        `json:"created"`
	Modified  time.Time        `json:"modified"`
}

type responseItem struct {
	ID        string          `json:"id"`
	PersonaID string          `json:"persona_id"`
	Answers   []models.Answer `json:"answers"`
	Created   time.Time       `json:"created"`
}

type progressResponse struct {
	State      models.RunState      `json:"state"`
	Progress   int                  `json:"progress"`
	Completed  int                  `json:"completed"`
	Failures   int                  `json:"failures"`
	TaskStatus taskqueue.TaskStatus `json:"task_status,omitempty"`
}

type simulatePayload struct {
	RunID string `json:"run_id"`
}

func toRunResponse(m *models.RunModel) runResponse {
	panel := m.Panel
	if panel == nil {
		panel = models.PersonaList{}
	}
	return runResponse{
		ID:        m.ID,
		SurveyID:  m.SurveyID,
		State:     m.State,
		Audience:  m.Audience,
		Panel:     panel,
		Completed: m.Completed,
		Failures:  m.Failures,
		Progress:  m.Progress,
		TaskID:    m.TaskID,
		Created:   m.CreatedAt,
		Modified:  m.UpdatedAt,
	}
}

func toResponseItem(m *models.ResponseModel) responseItem {
	answers := m.Answers
	if answers == nil {
		answers = models.AnswerList{}
	}
	return responseItem{
		ID:        m.ID,
		PersonaID: m.PersonaID,
		Answers:   answers,
		Created:   m.CreatedAt,
	}
}
