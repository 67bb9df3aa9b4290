package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
)

// API error codes.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Fields  []validate.FieldError `json:"fields,omitempty"`
}

// badRequestError marks input that could not be decoded at all.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

// writeError renders err with the status and code of its kind.
func writeError(c *gin.Context, err error) {
	var (
		ve *validate.Error
		br *badRequestError
	)
	status, body := http.StatusInternalServerError, apiError{Code: CodeInternalError, Message: "internal error"}
	switch {
	case errors.As(err, &ve):
		status, body = http.StatusUnprocessableEntity, apiError{Code: CodeInvalidInput, Message: ve.Error(), Fields: ve.Fields}
	case errors.As(err, &br):
		status, body = http.StatusBadRequest, apiError{Code: CodeInvalidInput, Message: br.msg}
	case errors.Is(err, record.ErrNotFound):
		status, body = http.StatusNotFound, apiError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, record.ErrIntegrity):
		status, body = http.StatusConflict, apiError{Code: CodeConflict, Message: err.Error()}
	}
	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
