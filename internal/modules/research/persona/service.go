package persona

import (
	"errors"
	"strings"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/pagination"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"gorm.io/gorm"
)

// Service manages the durable persona library. Panel membership is handled
// by the simulation module; the library only hands out value copies.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(dto *CreatePersonaDTO) (*models.PersonaModel, error) {
	m := models.PersonaModel{
		Name:       strings.TrimSpace(dto.Name),
		Age:        dto.Age,
		Occupation: strings.TrimSpace(dto.Occupation),
		Traits:     dto.Traits,
		PainPoints: dto.PainPoints,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) List(q pagination.Query) ([]models.PersonaModel, response.Pagination, error) {
	tx := s.db.Model(&models.PersonaModel{}).Order("created_at DESC")
	var items []models.PersonaModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.PersonaModel, error) {
	var m models.PersonaModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetManyByIDs fetches library personas preserving the requested order.
// Missing IDs are reported back so callers can reject the whole selection.
func (s *Service) GetManyByIDs(ids []string) ([]models.Persona, []string, error) {
	var rows []models.PersonaModel
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*models.PersonaModel, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	personas := make([]models.Persona, 0, len(ids))
	var missing []string
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		personas = append(personas, row.AsPersona())
	}
	return personas, missing, nil
}

func (s *Service) Update(id string, dto *UpdatePersonaDTO) (*models.PersonaModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Age != nil {
		updates["age"] = *dto.Age
	}
	if dto.Occupation != nil {
		updates["occupation"] = strings.TrimSpace(*dto.Occupation)
	}
	if dto.Traits != nil {
		updates["traits"] = *dto.Traits
	}
	if dto.PainPoints != nil {
		updates["pain_points"] = *dto.PainPoints
	}
	if len(updates) == 0 {
		return m, nil
	}
	return m, s.db.Model(m).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PersonaModel{}, "id = ?", id).Error
}

// SaveToLibrary copies a panel persona into the library under the same ID,
// replacing any previous library entry with that ID. The panel copy is left
// untouched.
func (s *Service) SaveToLibrary(p models.Persona) (*models.PersonaModel, error) {
	m := models.PersonaModel{
		Name:       p.Name,
		Age:        p.Age,
		Occupation: p.Occupation,
		Traits:     p.Traits,
		PainPoints: p.PainPoints,
	}
	m.ID = p.ID

	err := s.db.Where("id = ?", p.ID).Assign(map[string]interface{}{
		"name":        p.Name,
		"age":         p.Age,
		"occupation":  p.Occupation,
		"traits":      p.Traits,
		"pain_points": p.PainPoints,
	}).FirstOrCreate(&m).Error
	return &m, err
}
