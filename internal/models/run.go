package models

// RunState is the explicit step of a survey run. Transitions are driven only
// by events in the simulation module, never by ambient mutation.
type RunState string

const (
	RunSetup      RunState = "setup"
	RunPersonas   RunState = "personas"
	RunSimulation RunState = "simulation"
	RunResults    RunState = "results"
)

// RunModel is one complete pass from panel synthesis through analysis for a
// survey. Responses and analysis belong to the run and are discarded, not
// merged, when a new run starts.
type RunModel struct {
	Base
	SurveyID  string      `json:"survey_id" gorm:"index;not null"`
	State     RunState    `json:"state"     gorm:"default:'setup'"`
	Audience  string      `json:"audience"  gorm:"type:text"`
	Panel     PersonaList `json:"panel"     gorm:"type:longtext"`
	Completed int         `json:"completed"`
	Failures  int         `json:"failures"`
	Progress  int         `json:"progress"` // 0-100, updated after every persona
	TaskID    string      `json:"task_id"   gorm:"index"`
}

func (RunModel) TableName() string { return "runs" }
