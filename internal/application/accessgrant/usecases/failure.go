package usecases

import "maps"

// GrantFailure is returned when an attempt on a grant did not take effect.
// It wraps the AppError that classifies the failure and carries the stored
// diagnostics for the caller's failure envelope.
type GrantFailure struct {
	GrantID uint
	Details map[string]any
	Err     error
}

func newGrantFailure(grantID uint, details map[string]any, err error) *GrantFailure {
	return &GrantFailure{GrantID: grantID, Details: maps.Clone(details), Err: err}
}

func (f *GrantFailure) Error() string {
	return f.Err.Error()
}

// Unwrap exposes the underlying AppError to errors.As
func (f *GrantFailure) Unwrap() error {
	return f.Err
}
