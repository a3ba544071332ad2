package render

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Job.Wait for jobs that were superseded or
// cancelled. It's not a failure: the job's output just isn't wanted anymore.
var ErrCancelled = errors.New("render job cancelled")

// ConfigError is returned by Submit for requests that can't be rendered, like
// an unknown palette or algorithm. Nothing is started or cancelled when it's
// returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bad render request: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a source image can't be read or decoded.
type DecodeError struct {
	// Path is the file that was read, or "" for a stream.
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error decoding image: %v", e.Err)
	}
	return fmt.Sprintf("error decoding '%s': %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
