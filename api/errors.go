package api

import (
	"net/http"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/wizard"
	"github.com/gin-gonic/gin"
)

const (
	flashError = "error"
	flashInfo  = "info"
)

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConflict(err):
		return http.StatusConflict
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the text shown to the visitor. Unexpected errors are not
// echoed.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "something went wrong, please try again"
	}
	return err.Error()
}

// renderError answers a page request with the mapped status and the error
// as a message. Wizard preconditions redirect instead.
func renderError(c *gin.Context, err error, page gin.H) {
	if pe, ok := wizard.IsPrecondition(err); ok {
		c.Redirect(http.StatusSeeOther, pe.Redirect())
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	if page == nil {
		page = gin.H{}
	}
	page["messages"] = append(messages(currentSession(c)), messageFor(err))
	c.JSON(status, page)
}

// failForm turns a form submission error into a flash message and a 303 to
// back. Wizard preconditions go to the step that is due instead.
func failForm(c *gin.Context, err error, back string) {
	if pe, ok := wizard.IsPrecondition(err); ok {
		c.Redirect(http.StatusSeeOther, pe.Redirect())
		return
	}
	if statusFor(err) == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	currentSession(c).AddFlash(flashError, messageFor(err))
	c.Redirect(http.StatusSeeOther, back)
}

func redirectWithFlash(c *gin.Context, text, to string) {
	currentSession(c).AddFlash(flashInfo, text)
	c.Redirect(http.StatusSeeOther, to)
}

// badRequest wraps a form binding failure as a validation error.
func badRequest(err error) error {
	return domain.ValidationError{Msg: "malformed form: " + err.Error()}
}
