package optimizer

import (
	"fmt"

	"resumeforge/internal/shared/apperr"
)

// Error codes returned by the optimizer HTTP handler.
const (
	ErrorCodeValidation  = "validation_error"
	ErrorCodeNotFound    = "not_found"
	ErrorCodeUnavailable = "state_store_unavailable"
	ErrorCodeWorkflow    = "workflow_failed"
	ErrorCodeRender      = "render_failed"
)

// StageError names the stage that aborted a run. Its kind is the kind of the
// underlying failure.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("optimizer stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Kind reports the apperr kind of the wrapped failure.
func (e *StageError) Kind() apperr.Kind { return apperr.KindOf(e.Err) }
