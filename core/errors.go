package core

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidYear     = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth    = errors.New("month must be between 0 and 11")
	ErrInvalidCategory = errors.New("category must be PERFORMANCE or FESTIVAL")
	ErrInvalidDay      = errors.New("day must be a date inside the selected month")
	ErrEmptyResponse   = errors.New("generation returned no text")
	ErrMalformedBatch  = errors.New("generated events do not match the event schema")
	ErrDuplicateId     = errors.New("duplicate event id")
	ErrEmptyCatalog    = errors.New("fallback catalog has no events")
)

// Error is the JSON body of every 4xx/5xx answer. Joined errors are listed one message each,
// and the original errors stay reachable through errors.Is.
type Error struct {
	Message string   `json:"message,omitempty"`
	Err     []string `json:"err,omitempty"`
	causes  []error
}

func NewError(message string, errs ...error) *Error {
	e := &Error{Message: message}

	for _, err := range errs {
		e.add(err)
	}

	return e
}

func (e *Error) add(err error) {
	if err == nil {
		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			e.add(inner)
		}

		return
	}

	e.Err = append(e.Err, err.Error())
	e.causes = append(e.causes, err)
}

func (e *Error) Error() string {
	//nolint:errchkjson
	data, _ := json.Marshal(e)
	return string(data)
}

// Unwrap returns the original errors. An Error decoded from JSON only has the messages.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}

	if len(e.causes) > 0 {
		return e.causes
	}

	errs := make([]error, 0, len(e.Err))
	for _, msg := range e.Err {
		errs = append(errs, errors.New(msg))
	}

	return errs
}

func (e *Error) Messages() []string {
	return e.Err
}
