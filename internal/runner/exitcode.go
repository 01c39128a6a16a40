package runner

import (
	"fmt"

	"github.com/julianshen/dotnetdocs/internal/manager"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitFailure means nothing was documented or the run could not start.
	ExitFailure = 1
	// ExitPartial means some assemblies were documented and others failed.
	ExitPartial = 2
	// ExitDiff means verify found differences from the baseline.
	ExitDiff = 3
)

// ExitError is returned when the command should exit with a specific code.
// Using a typed error instead of os.Exit ensures deferred cleanup runs.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// WithCode attaches code to err. A nil err stays nil.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCodeFromResult maps a generation result to an exit code. An assembly
// whose build succeeded but whose rendering failed counts as documented.
func ExitCodeFromResult(res *manager.Result) int {
	switch {
	case res == nil:
		return ExitFailure
	case len(res.Failures) == 0:
		return ExitOK
	case len(res.Assemblies) > 0:
		return ExitPartial
	default:
		return ExitFailure
	}
}
