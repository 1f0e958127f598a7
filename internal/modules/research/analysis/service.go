package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/HenryKang1/AI-market-researcher/internal/config"
	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/genai"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/prompt"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/simulation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoResponses = errors.New("run has no responses to analyze")

// AnalysisError marks a generation failure during aggregation. Unlike a
// per-persona failure it is fatal to the run's progression: the run stays on
// the simulation step and the operator retries explicitly.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

type Service struct {
	db     *gorm.DB
	gen    genai.Generator
	cfg    *appcfg.AppConfig
	logger *zap.Logger
}

func NewService(db *gorm.DB, gen genai.Generator, cfg *appcfg.AppConfig, logger *zap.Logger) *Service {
	return &Service{db: db, gen: gen, cfg: cfg, logger: logger}
}

// Aggregate produces the narrative report for a run in one generation call
// and advances the run to the results step. Tabulation is separate and
// model-free (see Tabulate); no reconciliation between the two is attempted.
func (s *Service) Aggregate(ctx context.Context, runID string) (*models.AnalysisModel, error) {
	run, err := s.getRun(runID)
	if err != nil || run == nil {
		return nil, err
	}
	if run.State != models.RunSimulation && run.State != models.RunResults {
		return nil, fmt.Errorf("%w: %v", simulation.ErrRunNotReady,
			fmt.Errorf("cannot analyze from state %q", run.State))
	}

	survey, responses, err := s.loadRunData(run)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	transcript := buildTranscript(run.Panel, responses)

	timeout := time.Duration(s.cfg.Simulation.CallTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, 2*timeout)
	defer cancel()

	raw, err := s.gen.Generate(callCtx, s.cfg.AI.AnalysisModel, prompt.AnalysisSpec(survey, transcript))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("run analysis failed", zap.String("run_id", runID), zap.Error(err))
		}
		return nil, &AnalysisError{Err: err}
	}

	var parsed struct {
		Summary            string   `json:"summary"`
		KeyInsights        []string `json:"keyInsights"`
		Sentiment          string   `json:"sentiment"`
		FeatureSuggestions []string `json:"featureSuggestions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &AnalysisError{Err: err}
	}

	report := models.AnalysisModel{
		RunID:       runID,
		Sentiment:   normalizeSentiment(parsed.Sentiment),
		Summary:     strings.TrimSpace(parsed.Summary),
		KeyInsights: parsed.KeyInsights,
		Suggestions: parsed.FeatureSuggestions,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AnalysisModel{}, "run_id = ?", runID).Error; err != nil {
			return err
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		if run.State == models.RunSimulation {
			next, terr := simulation.Transition(run.State, simulation.EventAnalysisComplete)
			if terr != nil {
				return terr
			}
			return tx.Model(&models.RunModel{}).Where("id = ?", runID).Update("state", next).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetByRunID returns the stored report, nil when none exists yet.
func (s *Service) GetByRunID(runID string) (*models.AnalysisModel, error) {
	var report models.AnalysisModel
	if err := s.db.First(&report, "run_id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// Tabulation computes the frequency tables for a run's responses.
func (s *Service) Tabulation(runID string) ([]FrequencyTable, error) {
	run, err := s.getRun(runID)
	if err != nil || run == nil {
		return nil, err
	}
	survey, responses, err := s.loadRunData(run)
	if err != nil {
		return nil, err
	}
	return Tabulate(survey, responses), nil
}

func (s *Service) getRun(runID string) (*models.RunModel, error) {
	var run models.RunModel
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (s *Service) loadRunData(run *models.RunModel) (models.SurveySnapshot, []models.ResponseModel, error) {
	var survey models.SurveyModel
	if err := s.db.First(&survey, "id = ?", run.SurveyID).Error; err != nil {
		return models.SurveySnapshot{}, nil, err
	}
	var responses []models.ResponseModel
	if err := s.db.Where("run_id = ?", run.ID).Find(&responses).Error; err != nil {
		return models.SurveySnapshot{}, nil, err
	}
	return survey.Snapshot(), orderByPanel(run.Panel, responses), nil
}

func orderByPanel(panel models.PersonaList, responses []models.ResponseModel) []models.ResponseModel {
	byPersona := make(map[string]*models.ResponseModel, len(responses))
	for i := range responses {
		byPersona[responses[i].PersonaID] = &responses[i]
	}
	ordered := make([]models.ResponseModel, 0, len(responses))
	for _, p := range panel {
		if row, ok := byPersona[p.ID]; ok {
			ordered = append(ordered, *row)
		}
	}
	return ordered
}

func buildTranscript(panel models.PersonaList, responses []models.ResponseModel) []prompt.TranscriptEntry {
	byID := make(map[string]models.Persona, len(panel))
	for _, p := range panel {
		byID[p.ID] = p
	}
	entries := make([]prompt.TranscriptEntry, 0, len(responses))
	for _, r := range responses {
		entries = append(entries, prompt.TranscriptEntry{
			Persona: byID[r.PersonaID],
			Answers: r.Answers,
		})
	}
	return entries
}

func normalizeSentiment(raw string) models.Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return models.SentimentPositive
	case "negative":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
