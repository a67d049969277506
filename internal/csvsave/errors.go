package csvsave

import (
	"errors"
	"fmt"
)

// ErrInsufficientColumns means a line ran out of tokens before every
// enabled column was read.
var ErrInsufficientColumns = errors.New("insufficient columns")

// A FieldError reports a line that could not be decoded. Field is the
// header name of the column being read when decoding stopped and Line is
// the line number the caller supplied.
type FieldError struct {
	FileName string
	Line     int
	Field    string
	Value    string
	Err      error
}

func (e *FieldError) Error() string {
	prefix := fmt.Sprintf("line %d", e.Line)
	if e.FileName != "" {
		prefix = fmt.Sprintf("%s:%d", e.FileName, e.Line)
	}
	if errors.Is(e.Err, ErrInsufficientColumns) {
		return fmt.Sprintf("%s: %v reading field '%s'", prefix, e.Err, e.Field)
	}
	return fmt.Sprintf("%s: could not parse field '%s' from %q: %v", prefix, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Pos returns the position of the failed line.
func (e *FieldError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}
