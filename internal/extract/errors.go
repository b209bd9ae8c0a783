package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnclassifiable is returned when a non-dependency file carries
	// neither an article nor a fragment element.
	ErrUnclassifiable = errors.New("extract: cannot classify file")
	// ErrFragmentMissingID is returned when a fragment declares no id.
	ErrFragmentMissingID = errors.New("extract: fragment missing id")
	// ErrInvalidLastModified is returned when an explicit last-modified value
	// is not a recognisable timestamp.
	ErrInvalidLastModified = errors.New("extract: invalid last-modified value")
)

// FileError ties an extraction failure to the content file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func fileError(path string, err error) error {
	if err == nil {
		return nil
	}
	var existing *FileError
	if errors.As(err, &existing) {
		return err
	}
	return &FileError{Path: path, Err: err}
}
