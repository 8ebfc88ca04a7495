package returns

import "errors"

var (
	// ErrUnknownPeriod is returned when a period label cannot be parsed.
	ErrUnknownPeriod = errors.New("unknown period")

	// ErrNoColumn is returned when a frame lookup names a column that
	// does not exist.
	ErrNoColumn = errors.New("no such column")
)

// ValidationError represents constructor input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return ve.Message
}
