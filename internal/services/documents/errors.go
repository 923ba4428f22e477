package documents

import (
	"errors"
)

var (
	ErrNoFilePaths      = errors.New("file paths are required")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrNoContent        = errors.New("no content extracted from document")
	ErrNoValidContent   = errors.New("no valid content found in parsed documents")
	ErrParserNotDefined = errors.New("document parser is required")
)

// ProcessingError is returned for unreadable, unsupported or empty documents
// and for failures while splitting or parsing them.
type ProcessingError struct {
	Message string
	Err     error
}

func (e *ProcessingError) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func processingError(message string, err error) *ProcessingError {
	return &ProcessingError{Message: message, Err: err}
}

// IsProcessingError reports whether err is, or wraps, a ProcessingError
func IsProcessingError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
