package genai

import "fmt"

// GenerationError is the single failure kind reported to callers. Service
// errors, empty responses, unparsable bodies and schema violations all
// collapse into it so callers implement one uniform fallback.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func generationErr(format string, args ...interface{}) error {
	return &GenerationError{Err: fmt.Errorf(format, args...)}
}

func wrapGenerationErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*GenerationError); ok {
		return err
	}
	return &GenerationError{Err: err}
}
