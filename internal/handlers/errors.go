package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorBody is the JSON shape of every error response: {"success":false,"message":...}.
type ErrorBody struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	status  int
}

func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorBody) GetStatus() int {
	return e.status
}

// UseEnvelopeErrors makes huma render errors as ErrorBody.
// Wrapped causes are only exposed for client errors.
func UseEnvelopeErrors() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		body := &ErrorBody{Message: message, status: status}

		if status < http.StatusInternalServerError {
			for _, err := range errs {
				if err != nil {
					body.Details = append(body.Details, err.Error())
				}
			}
		}

		return body
	}
}
