package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotReady          = errors.New("audio output not ready")
	ErrSoundNotFound     = errors.New("sound not found")
	ErrInvalidFormat     = errors.New("unsupported audio format")
	ErrPadOutOfRange     = errors.New("pad index out of range")
	ErrLoopNotFound      = errors.New("stored loop not found")
	ErrInvalidDuration   = errors.New("loop duration must be 4 or 8 seconds")
	ErrInvalidTempo      = errors.New("tempo out of range")
	ErrRenderUnsupported = errors.New("offline rendering unavailable")
	ErrDuplicateSound    = errors.New("duplicate sound id")
)

// SoundError wraps errors with the sound they concern
type SoundError struct {
	Op    string // Operation that failed
	Sound string // Sound ID if applicable
	Err   error  // Underlying error
}

func (e *SoundError) Error() string {
	if e.Sound != "" {
		return fmt.Sprintf("%s failed for sound %s: %v", e.Op, e.Sound, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SoundError) Unwrap() error {
	return e.Err
}

// NewSoundError creates a new SoundError
func NewSoundError(op, sound string, err error) *SoundError {
	return &SoundError{Op: op, Sound: sound, Err: err}
}

// ScanError represents an error while scanning a sound directory
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
