// Package export renders a run's results as downloadable documents: a
// delimited table of every response and a plain-text narrative report.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"gorm.io/gorm"
)

var ErrNoAnalysis = errors.New("run has no analysis yet")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// CSV renders one row per persona response, one column per question, in
// survey question order.
func (s *Service) CSV(runID string) ([]byte, error) {
	run, survey, responses, err := s.loadRun(runID)
	if err != nil || run == nil {
		return nil, err
	}
	return renderCSV(run.Panel, survey, responses)
}

// Report renders the narrative analysis as plain text.
func (s *Service) Report(runID string) ([]byte, error) {
	run, survey, _, err := s.loadRun(runID)
	if err != nil || run == nil {
		return nil, err
	}

	var report models.AnalysisModel
	if err := s.db.First(&report, "run_id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAnalysis
		}
		return nil, err
	}
	return renderReport(run, survey, &report), nil
}

// renderCSV writes the delimited table. Standard CSV quoting applies: fields
// wrapped in quotes with internal quotes doubled.
func renderCSV(panel models.PersonaList, survey models.SurveySnapshot, responses []models.ResponseModel) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(survey.Questions)+1)
	header = append(header, "Persona")
	for _, q := range survey.Questions {
		header = append(header, q.Text)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(panel))
	for _, p := range panel {
		names[p.ID] = p.Name
	}

	for _, r := range responses {
		byQuestion := make(map[string]models.Answer, len(r.Answers))
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = a
		}

		name := names[r.PersonaID]
		if name == "" {
			name = r.PersonaID
		}
		row := make([]string, 0, len(survey.Questions)+1)
		row = append(row, name)
		for _, q := range survey.Questions {
			row = append(row, byQuestion[q.ID].TextValue())
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderReport(run *models.RunModel, survey models.SurveySnapshot, report *models.AnalysisModel) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Market Research Report: %s\n", survey.Title)
	fmt.Fprintf(&sb, "Panel: %d personas, %d responses, %d failures\n\n",
		len(run.Panel), run.Completed, run.Failures)
	fmt.Fprintf(&sb, "Overall sentiment: %s\n\n", report.Sentiment)
	fmt.Fprintf(&sb, "Summary\n-------\n%s\n", report.Summary)

	if len(report.KeyInsights) > 0 {
		sb.WriteString("\nKey Insights\n------------\n")
		for _, insight := range report.KeyInsights {
			fmt.Fprintf(&sb, "- %s\n", insight)
		}
	}
	if len(report.Suggestions) > 0 {
		sb.WriteString("\nSuggestions\n-----------\n")
		for _, suggestion := range report.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", suggestion)
		}
	}
	return []byte(sb.String())
}

func (s *Service) loadRun(runID string) (*models.RunModel, models.SurveySnapshot, []models.ResponseModel, error) {
	var run models.RunModel
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.SurveySnapshot{}, nil, nil
		}
		return nil, models.SurveySnapshot{}, nil, err
	}

	var survey models.SurveyModel
	if err := s.db.First(&survey, "id = ?", run.SurveyID).Error; err != nil {
		return nil, models.SurveySnapshot{}, nil, err
	}

	var rows []models.ResponseModel
	if err := s.db.Where("run_id = ?", runID).Find(&rows).Error; err != nil {
		return nil, models.SurveySnapshot{}, nil, err
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
	return &run, survey.Snapshot(), ordered, nil
}
