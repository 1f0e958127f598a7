package genai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personaShape() Schema {
	return Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Fields: []Field{
				{Name: "id", Required: true, Schema: Schema{Type: TypeString}},
				{Name: "age", Required: true, Schema: Schema{Type: TypeInteger}},
				{Name: "mood", Required: false, Schema: Schema{Type: TypeString, Enum: []string{"Happy", "Sad"}}},
			},
		},
	}
}

func TestSchemaInstructionDeterministic(t *testing.T) {
	shape := personaShape()
	first := shape.Instruction()
	second := shape.Instruction()
	assert.Equal(t, first, second)
	assert.Equal(t, `[{"id": string, "age": integer, "mood": "Happy" | "Sad"}, ...]`, first)
}

func TestSchemaValidate(t *testing.T) {
	shape := personaShape()

	require.NoError(t, shape.Validate(json.RawMessage(`[{"id":"a","age":30,"mood":"Happy"}]`)))
	require.NoError(t, shape.Validate(json.RawMessage(`[{"id":"a","age":30}]`)), "optional field may be absent")
	require.NoError(t, shape.Validate(json.RawMessage(`[{"id":"a","age":30,"mood":"happy"}]`)), "enum match is case-insensitive")

	assert.Error(t, shape.Validate(json.RawMessage(`{"id":"a"}`)), "object is not an array")
	assert.Error(t, shape.Validate(json.RawMessage(`[{"age":30}]`)), "missing required field")
	assert.Error(t, shape.Validate(json.RawMessage(`[{"id":"a","age":30.5}]`)), "fractional integer")
	assert.Error(t, shape.Validate(json.RawMessage(`[{"id":"a","age":30,"mood":"Angry"}]`)), "enum violation")
	assert.Error(t, shape.Validate(json.RawMessage(`not json`)))
}

func TestExtractJSONStripsFences(t *testing.T) {
	out, err := ExtractJSON("```json\n{\"summary\":\"ok\"}\n```", TypeObject)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, string(out))
}

func TestExtractJSONSlicesSurroundingProse(t *testing.T) {
	out, err := ExtractJSON("Here you go:\n[{\"id\":\"a\"}]\nHope that helps!", TypeArray)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(out))
}

func TestExtractJSONRejectsGarbage(t *testing.T) {
	_, err := ExtractJSON("I could not produce an answer.", TypeObject)
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}
