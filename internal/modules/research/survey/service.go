package survey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/pagination"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidQuestions = errors.New("invalid questions")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// buildQuestions validates and normalizes an incoming question list.
// Identifiers must be unique; blank ones get generated. Multiple choice
// requires a non-empty option list; other types carry no options.
func buildQuestions(dtos []QuestionDTO) (models.QuestionList, error) {
	questions := make(models.QuestionList, 0, len(dtos))
	seen := make(map[string]struct{}, len(dtos))

	for i, dto := range dtos {
		id := strings.TrimSpace(dto.ID)
		if id == "" {
			id = uuid.New().String()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuestions, id)
		}
		seen[id] = struct{}{}

		q := models.Question{
			ID:   id,
			Text: strings.TrimSpace(dto.Text),
			Type: dto.Type,
		}
		switch dto.Type {
		case models.QuestionMultipleChoice:
			options := make(models.StringArray, 0, len(dto.Options))
			for _, opt := range dto.Options {
				if trimmed := strings.TrimSpace(opt); trimmed != "" {
					options = append(options, trimmed)
				}
			}
			if len(options) == 0 {
				return nil, fmt.Errorf("%w: question %d needs at least one option", ErrInvalidQuestions, i+1)
			}
			q.Options = options
		case models.QuestionOpenEnded, models.QuestionRatingScale:
			// options are unused for these types
		default:
			return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidQuestions, dto.Type)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *Service) Create(dto *CreateSurveyDTO) (*models.SurveyModel, error) {
	questions, err := buildQuestions(dto.Questions)
	if err != nil {
		return nil, err
	}
	m := models.SurveyModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Questions:   questions,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) List(q pagination.Query) ([]models.SurveyModel, response.Pagination, error) {
	tx := s.db.Model(&models.SurveyModel{}).Order("created_at DESC")
	var items []models.SurveyModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.SurveyModel, error) {
	var m models.SurveyModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) Update(id string, dto *UpdateSurveyDTO) (*models.SurveyModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Questions != nil {
		questions, err := buildQuestions(*dto.Questions)
		if err != nil {
			return nil, err
		}
		updates["questions"] = questions
		m.Questions = questions
	}
	if len(updates) == 0 {
		return m, nil
	}
	return m, s.db.Model(m).Updates(updates).Error
}

// Delete removes a survey and everything derived from it: runs, responses
// and analyses.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var runIDs []string
		if err := tx.Model(&models.RunModel{}).Where("survey_id = ?", id).Pluck("id", &runIDs).Error; err != nil {
			return err
		}
		if len(runIDs) > 0 {
			if err := tx.Delete(&models.ResponseModel{}, "run_id IN ?", runIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.AnalysisModel{}, "run_id IN ?", runIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.RunModel{}, "id IN ?", runIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.SurveyModel{}, "id = ?", id).Error
	})
}

// SaveTemplate freezes a survey into a named reusable snapshot.
func (s *Service) SaveTemplate(surveyID, name string) (*models.SurveyTemplateModel, error) {
	m, err := s.GetByID(surveyID)
	if err != nil || m == nil {
		return nil, err
	}
	tpl := models.SurveyTemplateModel{
		Name:     strings.TrimSpace(name),
		Snapshot: m.Snapshot(),
	}
	return &tpl, s.db.Create(&tpl).Error
}

func (s *Service) ListTemplates(q pagination.Query) ([]models.SurveyTemplateModel, response.Pagination, error) {
	tx := s.db.Model(&models.SurveyTemplateModel{}).Order("created_at DESC")
	var items []models.SurveyTemplateModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetTemplateByID(id string) (*models.SurveyTemplateModel, error) {
	var tpl models.SurveyTemplateModel
	if err := s.db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

// ApplyTemplate materializes a fresh survey from a stored snapshot. The new
// survey owns its own question copies; later edits never touch the template.
func (s *Service) ApplyTemplate(templateID string) (*models.SurveyModel, error) {
	tpl, err := s.GetTemplateByID(templateID)
	if err != nil || tpl == nil {
		return nil, err
	}

	questions := make(models.QuestionList, len(tpl.Snapshot.Questions))
	copy(questions, tpl.Snapshot.Questions)
	for i := range questions {
		opts := make(models.StringArray, len(tpl.Snapshot.Questions[i].Options))
		copy(opts, tpl.Snapshot.Questions[i].Options)
		questions[i].Options = opts
	}

	m := models.SurveyModel{
		Title:       tpl.Snapshot.Title,
		Description: tpl.Snapshot.Description,
		Questions:   questions,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) DeleteTemplate(id string) error {
	return s.db.Delete(&models.SurveyTemplateModel{}, "id = ?", id).Error
}
