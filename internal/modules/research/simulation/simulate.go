package simulation

import (
	"context"
	"encoding/json"
	"time"

	appcfg "github.com/HenryKang1/AI-market-researcher/internal/config"
	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/genai"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/prompt"
	"go.uber.org/zap"
)

// PanelResponse is one persona's coerced answer sheet, not yet persisted.
type PanelResponse struct {
	PersonaID string
	Answers   []models.Answer
}

// Result is the outcome of a full panel pass.
type Result struct {
	Responses []PanelResponse
	Failures  int
	Cancelled bool
}

// Hooks lets the caller observe and steer a running simulation. OnProgress
// fires after every persona attempt, success or failure. ShouldStop is
// polled between personas only; an in-flight call is never interrupted.
type Hooks struct {
	OnProgress func(completed, total, percent int)
	ShouldStop func() bool
}

// Execute walks the panel strictly sequentially, one generation call per
// persona. A failed call is logged and skipped so a single persona never
// loses the rest of the panel's responses. Each call is capped by timeout.
func Execute(
	ctx context.Context,
	gen genai.Generator,
	assignment *appcfg.AIModelAssignment,
	timeout time.Duration,
	survey models.SurveySnapshot,
	panel []models.Persona,
	hooks Hooks,
	logger *zap.Logger,
) Result {
	var result Result
	total := len(panel)

	for i, persona := range panel {
		if i > 0 && hooks.ShouldStop != nil && hooks.ShouldStop() {
			result.Cancelled = true
			return result
		}

		answers, err := simulatePersona(ctx, gen, assignment, timeout, survey, persona)
		if err != nil {
			result.Failures++
			if logger != nil {
				logger.Warn("persona simulation failed, skipping",
					zap.String("persona_id", persona.ID),
					zap.String("persona", persona.Name),
					zap.Error(err))
			}
		} else {
			result.Responses = append(result.Responses, PanelResponse{
				PersonaID: persona.ID,
				Answers:   answers,
			})
		}

		if hooks.OnProgress != nil {
			attempted := i + 1
			hooks.OnProgress(attempted, total, attempted*100/total)
		}
	}
	return result
}

func simulatePersona(
	ctx context.Context,
	gen genai.Generator,
	assignment *appcfg.AIModelAssignment,
	timeout time.Duration,
	survey models.SurveySnapshot,
	persona models.Persona,
) ([]models.Answer, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	raw, err := gen.Generate(callCtx, assignment, prompt.SimulationSpec(survey, persona))
	if err != nil {
		return nil, err
	}

	var records []struct {
		QuestionID string `json:"questionId"`
		Answer     string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	byQuestion := make(map[string]string, len(records))
	for _, r := range records {
		byQuestion[r.QuestionID] = r.Answer
	}

	// Answers are stored in survey question order regardless of reply order;
	// a missing answer coerces from the empty string.
	answers := make([]models.Answer, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		answers = append(answers, Coerce(q, byQuestion[q.ID]))
	}
	return answers, nil
}
