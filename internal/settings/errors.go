package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad marks a failed store read
	ErrLoad = errors.New("failed to load settings")
	// ErrSave marks a failed or rejected store write
	ErrSave = errors.New("failed to save settings")

	ErrNotReady     = errors.New("settings are not ready")
	ErrBusy         = errors.New("a settings operation is already in flight")
	ErrEmptyAPIKey  = errors.New("API key cannot be empty")
	ErrInvalidDraft = errors.New("draft model selection is not offered by the provider")
)

// FailureKind tells a load failure from a save failure
type FailureKind int

const (
	LoadFailure FailureKind = iota + 1
	SaveFailure
)

func (k FailureKind) String() string {
	switch k {
	case LoadFailure:
		return "load"
	case SaveFailure:
		return "save"
	default:
		return "unknown"
	}
}

// Failure is a recovered store failure.
// Err is nil when the store declined a write without reporting an error.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	base := f.sentinel().Error()
	if f.Err == nil {
		return base + ": store declined the write"
	}
	return fmt.Sprintf("%s: %v", base, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches ErrLoad or ErrSave according to Kind
func (f *Failure) Is(target error) bool {
	return target == f.sentinel()
}

func (f *Failure) sentinel() error {
	if f.Kind == LoadFailure {
		return ErrLoad
	}
	return ErrSave
}
