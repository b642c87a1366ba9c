package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed API call
type Kind int

const (
	KindServer Kind = iota
	KindAuth
	KindValidation
	KindConflict
	KindNotFound
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

// Sentinels usable with errors.Is against any *Error
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
)

// Error is the single failure shape surfaced by the resource clients
type Error struct {
	Kind        Kind
	Status      int    // 0 when no response was received
	Code        string // server "error" field
	Description string // server "description" field or a generic message
	Fields      map[string][]string
	Err         error // transport error for KindNetwork
}

func (e *Error) Error() string {
	msg := e.Description
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = e.sentinel().Error()
	}
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.FieldMessages(), "; ") + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindAuth:
		return ErrUnauthorized
	case KindValidation:
		return ErrValidation
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrServer
	}
}

// FieldMessages returns "field: message" lines sorted by field
func (e *Error) FieldMessages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var lines []string
	for _, f := range fields {
		for _, msg := range e.Fields[f] {
			lines = append(lines, f+": "+msg)
		}
	}
	return lines
}

// KindOf returns the kind of err, or KindServer when err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// IsAuth reports whether err is an authorization failure
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// errorBody is the API's error payload
type errorBody struct {
	Error       string              `json:"error"`
	Description string              `json:"description"`
	Errors      map[string][]string `json:"errors"`
}

// newStatusError builds an *Error from a non-2xx response
func newStatusError(status int, body []byte) *Error {
	e := &Error{Status: status, Kind: kindForStatus(status)}

	var payload errorBody
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Error
		e.Description = payload.Description
		e.Fields = payload.Errors
	}

	if strings.EqualFold(e.Code, "unauthorized") {
		e.Kind = KindAuth
	}
	if e.Description == "" && e.Code == "" {
		e.Description = genericMessage(status)
	}

	return e
}

// newNetworkError wraps a transport failure where no response arrived
func newNetworkError(err error) *Error {
	return &Error{
		Kind:        KindNetwork,
		Description: "could not reach the TaskHub API",
		Err:         err,
	}
}

// NewValidationError builds a client-side validation failure
func NewValidationError(fields map[string][]string) *Error {
	return &Error{
		Kind:        KindValidation,
		Description: "invalid input",
		Fields:      fields,
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed: %d %s", status, text)
	}
	return fmt.Sprintf("request failed with status %d", status)
}
