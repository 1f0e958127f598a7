package models

// Sentiment is the model-assessed overall tone of a response set. It is
// independent of the tabulated counts and may disagree with them.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// AnalysisModel stores the narrative report for a run. Derived, never edited
// directly; regenerated wholesale each time the operator analyzes a run.
type AnalysisModel struct {
	Base
	RunID       string      `json:"run_id"      gorm:"uniqueIndex;not null"`
	Sentiment   Sentiment   `json:"sentiment"`
	Summary     string      `json:"summary"     gorm:"type:text"`
	KeyInsights StringArray `json:"key_insights" gorm:"type:longtext"`
	Suggestions StringArray `json:"suggestions"  gorm:"type:longtext"`
}

func (AnalysisModel) TableName() string { return "run_analyses" }
