package api

import "encoding/json"

// Fallback messages, matching what the web client shows.
const (
	genericErrorMessage    = "An unexpected error occurred."
	validationErrorMessage = "A validation error occurred."
)

// Error is the normalized shape every server-reported failure is reduced
// to before it reaches the user. The original failure context travels with
// it so call sites can branch on status (e.g. redirect to login on 401).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// detail is the tagged variant of the server's heterogeneous error body:
// `{"detail": ...}` carries either a single string or a list of field
// validation entries. Unrecognized shapes fall through to the generic
// message.
type detail struct {
	kind    detailKind
	message string
	fields  []fieldError
}

type detailKind int

const (
	detailUnrecognized detailKind = iota
	detailSingleMessage
	detailFieldErrors
)

type fieldError struct {
	Msg string `json:"msg"`
}

func decodeDetail(body []byte) detail {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return detail{kind: detailUnrecognized}
	}

	var single string
	if err := json.Unmarshal(envelope.Detail, &single); err == nil {
		return detail{kind: detailSingleMessage, message: single}
	}

	var fields []fieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil && len(fields) > 0 {
		return detail{kind: detailFieldErrors, fields: fields}
	}

	return detail{kind: detailUnrecognized}
}

// normalized returns the single user-facing message for this detail:
// a string detail verbatim, the first field error's message, or the
// generic fallback.
func (d detail) normalized() string {
	switch d.kind {
	case detailSingleMessage:
		return d.message
	case detailFieldErrors:
		if d.fields[0].Msg != "" {
			return d.fields[0].Msg
		}
		return validationErrorMessage
	default:
		return genericErrorMessage
	}
}

// newError builds the normalized error for a non-2xx response body.
func newError(status int, body []byte) *Error {
	return &Error{
		Status:  status,
		Message: decodeDetail(body).normalized(),
	}
}
