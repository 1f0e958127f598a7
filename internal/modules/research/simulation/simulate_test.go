package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	appcfg "github.com/HenryKang1/AI-market-researcher/internal/config"
	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedGenerator replays one canned reply (or error) per call.
type scriptedGenerator struct {
	replies []scriptedReply
	calls   int
}

type scriptedReply struct {
	raw json.RawMessage
	err error
}

func (g *scriptedGenerator) Generate(_ context.Context, _ *appcfg.AIModelAssignment, _ genai.Spec) (json.RawMessage, error) {
	reply := g.replies[g.calls%len(g.replies)]
	g.calls++
	return reply.raw, reply.err
}

func answerJSON(questionID, answer string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`[{"questionId":%q,"answer":%q}]`, questionID, answer))
}

func ratingSurvey() models.SurveySnapshot {
	return models.SurveySnapshot{
		Title: "Concept test",
		Questions: []models.Question{
			{ID: "q1", Text: "Rate the concept", Type: models.QuestionRatingScale},
		},
	}
}

func panelOf(n int) []models.Persona {
	panel := make([]models.Persona, n)
	for i := range panel {
		panel[i] = models.Persona{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Persona %d", i+1), Age: 30}
	}
	return panel
}

func TestExecuteProgressSequence(t *testing.T) {
	const n = 4
	gen := &scriptedGenerator{replies: []scriptedReply{{raw: answerJSON("q1", "5")}}}

	var percents []int
	hooks := Hooks{OnProgress: func(completed, total, percent int) {
		assert.Equal(t, n, total)
		percents = append(percents, percent)
	}}

	result := Execute(context.Background(), gen, nil, time.Second, ratingSurvey(), panelOf(n), hooks, zap.NewNop())

	require.Len(t, percents, n, "one update per persona")
	for i := 1; i < len(percents); i++ {
		assert.Greater(t, percents[i], percents[i-1], "progress strictly increasing")
	}
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.Len(t, result.Responses, n)
	assert.Zero(t, result.Failures)
}

func TestExecuteAllCallsFail(t *testing.T) {
	const n = 3
	gen := &scriptedGenerator{replies: []scriptedReply{
		{err: &genai.GenerationError{Err: fmt.Errorf("provider unavailable")}},
	}}

	var percents []int
	hooks := Hooks{OnProgress: func(_, _, percent int) { percents = append(percents, percent) }}

	result := Execute(context.Background(), gen, nil, time.Second, ratingSurvey(), panelOf(n), hooks, zap.NewNop())

	assert.Empty(t, result.Responses)
	assert.Equal(t, n, result.Failures)
	require.Len(t, percents, n, "progress still updates on failures")
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.False(t, result.Cancelled)
}

func TestExecuteTwoPersonaScenario(t *testing.T) {
	// Persona A answers "5", persona B's call fails.
	gen := &scriptedGenerator{replies: []scriptedReply{
		{raw: answerJSON("q1", "5")},
		{err: &genai.GenerationError{Err: fmt.Errorf("timeout")}},
	}}

	var lastPercent int
	hooks := Hooks{OnProgress: func(_, _, percent int) { lastPercent = percent }}

	result := Execute(context.Background(), gen, nil, time.Second, ratingSurvey(), panelOf(2), hooks, zap.NewNop())

	require.Len(t, result.Responses, 1)
	assert.Equal(t, "p1", result.Responses[0].PersonaID)
	require.Len(t, result.Responses[0].Answers, 1)
	assert.Equal(t, models.AnswerRating, result.Responses[0].Answers[0].Kind)
	assert.Equal(t, 5, result.Responses[0].Answers[0].Rating)
	assert.Equal(t, 1, result.Failures)
	assert.Equal(t, 100, lastPercent)
}

func TestExecuteAnswersFollowQuestionOrder(t *testing.T) {
	survey := models.SurveySnapshot{
		Questions: []models.Question{
			{ID: "q1", Text: "First", Type: models.QuestionOpenEnded},
			{ID: "q2", Text: "Second", Type: models.QuestionRatingScale},
		},
	}
	// Reply arrives in reverse order and skips nothing.
	gen := &scriptedGenerator{replies: []scriptedReply{
		{raw: json.RawMessage(`[{"questionId":"q2","answer":"4"},{"questionId":"q1","answer":"fine"}]`)},
	}}

	result := Execute(context.Background(), gen, nil, time.Second, survey, panelOf(1), Hooks{}, zap.NewNop())

	require.Len(t, result.Responses, 1)
	answers := result.Responses[0].Answers
	require.Len(t, answers, 2)
	assert.Equal(t, "q1", answers[0].QuestionID)
	assert.Equal(t, "fine", answers[0].Text)
	assert.Equal(t, "q2", answers[1].QuestionID)
	assert.Equal(t, 4, answers[1].Rating)
}

func TestExecuteMissingAnswerCoercesDefault(t *testing.T) {
	survey := models.SurveySnapshot{
		Questions: []models.Question{
			{ID: "q1", Text: "Rate it", Type: models.QuestionRatingScale},
			{ID: "q2", Text: "Why?", Type: models.QuestionOpenEnded},
		},
	}
	gen := &scriptedGenerator{replies: []scriptedReply{{raw: answerJSON("q2", "because")}}}

	result := Execute(context.Background(), gen, nil, time.Second, survey, panelOf(1), Hooks{}, zap.NewNop())

	require.Len(t, result.Responses, 1)
	answers := result.Responses[0].Answers
	require.Len(t, answers, 2)
	assert.Equal(t, 3, answers[0].Rating, "missing rating answer takes the neutral default")
	assert.Equal(t, "because", answers[1].Text)
}

func TestExecuteCooperativeCancel(t *testing.T) {
	gen := &scriptedGenerator{replies: []scriptedReply{{raw: answerJSON("q1", "5")}}}

	stopped := false
	hooks := Hooks{ShouldStop: func() bool { return stopped }}
	hooks.OnProgress = func(completed, _, _ int) {
		if completed == 1 {
			stopped = true
		}
	}

	result := Execute(context.Background(), gen, nil, time.Second, ratingSurvey(), panelOf(5), hooks, zap.NewNop())

	assert.True(t, result.Cancelled)
	assert.Len(t, result.Responses, 1, "first persona completed before the stop flag was seen")
	assert.Equal(t, 1, gen.calls, "no calls after cancellation")
}

func TestPanelPersonaLookup(t *testing.T) {
	panel := models.PersonaList{
		{ID: "p1", Name: "Dana"},
		{ID: "p2", Name: "Eli", Occupation: "Nurse"},
	}

	p, ok := panelPersona(panel, "p2")
	require.True(t, ok)
	assert.Equal(t, "Eli", p.Name)
	assert.Equal(t, "Nurse", p.Occupation)

	// The panel and the library stay linked by ID only; the lookup must hand
	// out a value copy, never a reference into the panel.
	p.Name = "Changed"
	assert.Equal(t, "Eli", panel[1].Name)

	_, ok = panelPersona(panel, "p9")
	assert.False(t, ok)
}
