package checks

import "fmt"

// InputError reports a call that cannot be processed at all: an empty dataset,
// a missing quasi-identifier, an unknown noise mechanism name. Nothing is
// processed when it is returned.
type InputError struct {
	Op  string
	Msg string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Msg)
}

// NewInputError returns an *InputError for op.
func NewInputError(op, format string, args ...any) error {
	return &InputError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports a parameter outside of its configured valid range.
type ValidationError struct {
	Param string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Param, e.Msg)
}

func validationErrorf(param, format string, args ...any) error {
	return &ValidationError{Param: param, Msg: fmt.Sprintf(format, args...)}
}

// DataInsufficiencyError reports that fewer records are available than the
// requested anonymity level k requires; no best-effort result is possible.
type DataInsufficiencyError struct {
	Need, Got int
}

func (e *DataInsufficiencyError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d records, got %d", e.Need, e.Got)
}

// ComputationWarning reports a query that had no valid numeric values to work
// with. The query result must be read as "no valid data", not as zero.
type ComputationWarning struct {
	Field string
	Msg   string
}

func (e *ComputationWarning) Error() string {
	if e.Field == "" {
		return "no valid data: " + e.Msg
	}
	return fmt.Sprintf("no valid data for field %q: %s", e.Field, e.Msg)
}
