package simulation

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
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/persona"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/prompt"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/pagination"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TaskTypeSimulate = "research:simulate"

	defaultPanelCount = 5
	maxPanelCount     = 20
)

type Service struct {
	db       *gorm.DB
	taskSvc  *taskqueue.Service
	personas *persona.Service
	gen      genai.Generator
	cfg      *appcfg.AppConfig
	logger   *zap.Logger
}

func NewService(db *gorm.DB, taskSvc *taskqueue.Service, personas *persona.Service, gen genai.Generator, cfg *appcfg.AppConfig, logger *zap.Logger) *Service {
	return &Service{db: db, taskSvc: taskSvc, personas: personas, gen: gen, cfg: cfg, logger: logger}
}

func (s *Service) callTimeout() time.Duration {
	seconds := s.cfg.Simulation.CallTimeoutSeconds
	if seconds < 1 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// CreateRun starts a fresh run for a survey, on the setup step.
func (s *Service) CreateRun(surveyID string, dto *CreateRunDTO) (*models.RunModel, error) {
	var survey models.SurveyModel
	if err := s.db.First(&survey, "id = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	run := models.RunModel{
		SurveyID: surveyID,
		State:    models.RunSetup,
		Audience: strings.TrimSpace(dto.Audience),
		Panel:    models.PersonaList{},
	}
	return &run, s.db.Create(&run).Error
}

func (s *Service) GetRun(id string) (*models.RunModel, error) {
	var run models.RunModel
	if err := s.db.First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (s *Service) ListRuns(surveyID string, q pagination.Query) ([]models.RunModel, response.Pagination, error) {
	tx := s.db.Model(&models.RunModel{}).Where("survey_id = ?", surveyID).Order("created_at DESC")
	var items []models.RunModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GeneratePanel synthesizes a persona panel for the run's target audience in
// one generation call.
func (s *Service) GeneratePanel(ctx context.Context, runID string, dto *GeneratePanelDTO) (*models.RunModel, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return run, err
	}

	audience := strings.TrimSpace(dto.Audience)
	if audience == "" {
		audience = run.Audience
	}
	if audience == "" {
		return nil, fmt.Errorf("%w: describe the target audience first", ErrRunNotReady)
	}

	count := dto.Count
	if count < 1 {
		count = defaultPanelCount
	}
	if count > maxPanelCount {
		count = maxPanelCount
	}

	callCtx, cancel := context.WithTimeout(ctx, 2*s.callTimeout())
	defer cancel()
	raw, err := s.gen.Generate(callCtx, s.cfg.AI.PersonaModel, prompt.PanelSpec(audience, count))
	if err != nil {
		return nil, err
	}

	var generated []models.Persona
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, err
	}

	// Model-invented IDs can collide or come back blank; repair them so the
	// panel invariant (unique IDs) always holds.
	seen := make(map[string]struct{}, len(generated))
	panel := make(models.PersonaList, 0, len(generated))
	for _, p := range generated {
		p.ID = strings.TrimSpace(p.ID)
		if _, dup := seen[p.ID]; p.ID == "" || dup {
			p.ID = uuid.New().String()
		}
		seen[p.ID] = struct{}{}
		panel = append(panel, p)
	}
	if len(panel) == 0 {
		return nil, ErrPanelEmpty
	}

	return s.replacePanel(run, panel, audience)
}

// SetPanel curates the panel by hand: value copies of library picks plus
// inline ad-hoc personas.
func (s *Service) SetPanel(runID string, dto *SetPanelDTO) (*models.RunModel, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return run, err
	}

	panel := make(models.PersonaList, 0, len(dto.PersonaIDs)+len(dto.Personas))
	if len(dto.PersonaIDs) > 0 {
		picked, missing, err := s.personas.GetManyByIDs(dto.PersonaIDs)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrPersonasMissing, strings.Join(missing, ", "))
		}
		panel = append(panel, picked...)
	}
	for _, p := range dto.Personas {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			id = uuid.New().String()
		}
		panel = append(panel, models.Persona{
			ID:         id,
			Name:       strings.TrimSpace(p.Name),
			Age:        p.Age,
			Occupation: strings.TrimSpace(p.Occupation),
			Traits:     p.Traits,
			PainPoints: p.PainPoints,
		})
	}

	seen := make(map[string]struct{}, len(panel))
	for _, p := range panel {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate persona id %q in panel", ErrPersonasMissing, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if len(panel) == 0 {
		return nil, ErrPanelEmpty
	}

	return s.replacePanel(run, panel, run.Audience)
}

// SavePanelPersona copies one of the run's panel members into the durable
// library under the same ID, replacing any previous library entry with that
// ID. The panel copy stays untouched; the two records remain linked only by
// ID equality.
func (s *Service) SavePanelPersona(runID, personaID string) (*models.PersonaModel, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return nil, err
	}
	p, ok := panelPersona(run.Panel, personaID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the panel", ErrPersonasMissing, personaID)
	}
	return s.personas.SaveToLibrary(p)
}

// panelPersona returns a value copy of the panel member with the given ID.
func panelPersona(panel models.PersonaList, id string) (models.Persona, bool) {
	for _, p := range panel {
		if p.ID == id {
			return p, true
		}
	}
	return models.Persona{}, false
}

// replacePanel installs a new panel and discards everything derived from the
// previous one.
func (s *Service) replacePanel(run *models.RunModel, panel models.PersonaList, audience string) (*models.RunModel, error) {
	next, err := Transition(run.State, EventPanelReady)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunNotReady, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ResponseModel{}, "run_id = ?", run.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.AnalysisModel{}, "run_id = ?", run.ID).Error; err != nil {
			return err
		}
		return tx.Model(run).Updates(map[string]interface{}{
			"state":     next,
			"audience":  audience,
			"panel":     panel,
			"completed": 0,
			"failures":  0,
			"progress":  0,
			"task_id":   "",
		}).Error
	})
	if err != nil {
		return nil, err
	}

	run.State = next
	run.Audience = audience
	run.Panel = panel
	run.Completed, run.Failures, run.Progress = 0, 0, 0
	run.TaskID = ""
	return run, nil
}

// Simulate enqueues the panel walk as a background task. The run ID doubles
// as the dedup key, so a second simulate on an in-flight run returns the
// existing task instead of starting another.
func (s *Service) Simulate(ctx context.Context, runID string) (*taskqueue.Task, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return nil, err
	}

	next, err := Transition(run.State, EventSimulationStarted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunNotReady, err)
	}
	if len(run.Panel) == 0 {
		return nil, ErrPanelEmpty
	}

	payload := simulatePayload{RunID: run.ID}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeSimulate, payload, run.ID, run.SurveyID)
	if err != nil {
		return nil, err
	}
	if task.ID == run.TaskID || task.Status != taskqueue.TaskPending {
		// Dedup hit: the run is already simulating.
		return task, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ResponseModel{}, "run_id = ?", run.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.AnalysisModel{}, "run_id = ?", run.ID).Error; err != nil {
			return err
		}
		return tx.Model(run).Updates(map[string]interface{}{
			"state":     next,
			"completed": 0,
			"failures":  0,
			"progress":  0,
			"task_id":   task.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.executeSimulation(context.Background(), task.ID, run.ID)
	return task, nil
}

func (s *Service) executeSimulation(ctx context.Context, taskID, runID string) {
	s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, "run not found")
		return
	}

	var survey models.SurveyModel
	if err := s.db.First(&survey, "id = ?", run.SurveyID).Error; err != nil {
		s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, "survey not found")
		return
	}

	hooks := Hooks{
		OnProgress: func(completed, total, percent int) {
			s.taskSvc.UpdateProgress(ctx, taskID, percent)
			s.db.Model(&models.RunModel{}).Where("id = ?", runID).Update("progress", percent)
		},
		ShouldStop: func() bool {
			return s.taskSvc.IsCancelled(ctx, taskID)
		},
	}

	result := Execute(ctx, s.gen, s.cfg.AI.SimulationModel, s.callTimeout(),
		survey.Snapshot(), run.Panel, hooks, s.logger)

	rows := make([]models.ResponseModel, 0, len(result.Responses))
	for _, r := range result.Responses {
		rows = append(rows, models.ResponseModel{
			RunID:     runID,
			PersonaID: r.PersonaID,
			Answers:   r.Answers,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ResponseModel{}, "run_id = ?", runID).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.RunModel{}).Where("id = ?", runID).Updates(map[string]interface{}{
			"completed": len(result.Responses),
			"failures":  result.Failures,
		}).Error
	})
	if err != nil {
		s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}

	if result.Cancelled {
		// Cancel already set the terminal status; just leave the partial
		// responses in place.
		return
	}

	s.db.Model(&models.RunModel{}).Where("id = ?", runID).Update("progress", 100)
	s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, gin.H{
		"completed": len(result.Responses),
		"failures":  result.Failures,
	}, "")
}

// CancelRun flags the run's simulation task; the walk stops before the next
// persona.
func (s *Service) CancelRun(ctx context.Context, runID string) error {
	run, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil || run.TaskID == "" {
		return fmt.Errorf("%w: nothing to cancel", ErrRunNotReady)
	}
	return s.taskSvc.Cancel(ctx, run.TaskID)
}

// Progress reports the run's step and counters, plus the live task status
// when a simulation task exists.
func (s *Service) Progress(ctx context.Context, runID string) (*progressResponse, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return nil, err
	}

	out := progressResponse{
		State:     run.State,
		Progress:  run.Progress,
		Completed: run.Completed,
		Failures:  run.Failures,
	}
	if run.TaskID != "" {
		if task, err := s.taskSvc.GetByID(ctx, run.TaskID); err == nil && task != nil {
			out.TaskStatus = task.Status
		}
	}
	return &out, nil
}

// ListResponses returns the run's response sheets in panel order.
func (s *Service) ListResponses(runID string) ([]models.ResponseModel, error) {
	run, err := s.GetRun(runID)
	if err != nil || run == nil {
		return nil, err
	}

	var rows []models.ResponseModel
	if err := s.db.Where("run_id = ?", runID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byPersona := make(map[string]*models.ResponseModel, len(rows))
	for i := range rows {
		byPersona[rows[i].PersonaID] = &rows[i]
	}
	ordered := make([]models.ResponseModel, 0, len(rows))
	for _, p := range run.Panel {
		if row, ok := byPersona[p.ID]; ok {
			ordered = append(ordered, *row)
		}
	}
	return ordered, nil
}
