package attendanceapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TransportError means the request did not complete with a usable answer:
// a network failure, a non-2xx status, or a body that is not a result.
type TransportError struct {
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("attendance request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("attendance request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError means the service answered but reported failure.
type ApplicationError struct {
	Reason string // empty when the service gave none
}

func (e *ApplicationError) Error() string {
	if e.Reason == "" {
		return "attendance update rejected"
	}
	return "attendance update rejected: " + e.Reason
}

// ErrMissingSuccess is returned for a response body without a success field.
var ErrMissingSuccess = errors.New("response has no success field")

// Result is the decoded update response.
type Result struct {
	Success *bool  `json:"success" validate:"required"`
	Error   string `json:"error"`
}

// decodeResult parses and validates an update response body.
// POST: nil error means Success is set
func decodeResult(r io.Reader) (Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if err := validate.Struct(res); err != nil {
		return Result{}, ErrMissingSuccess
	}
	return res, nil
}

// Err converts a decoded result into nil or an *ApplicationError.
func (r Result) Err() error {
	if r.Success != nil && *r.Success {
		return nil
	}
	return &ApplicationError{Reason: r.Error}
}
