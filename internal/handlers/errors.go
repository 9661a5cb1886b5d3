package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
)

// fail hands err to httperr.Handler, which writes the response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bodyError reports a body cut off by middleware.BodyLimit as 413 and anything
// else as a 400 with message.
func bodyError(err error, message string) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return httperr.Wrap(
			http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body is too large. The limit is %d MB", mbe.Limit>>20),
			err,
		)
	}
	return httperr.Wrap(http.StatusBadRequest, message, err)
}

// bindError turns a binding failure into a 400 naming the offending fields.
func bindError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return bodyError(err, "")
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return httperr.Validation(err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return httperr.Wrap(
		http.StatusBadRequest,
		"Invalid input data. "+strings.Join(msgs, ". "),
		err,
	)
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "eqfield":
		return "Passwords are not the same!"
	case "email":
		return "Please provide a valid email"
	case "maildomain":
		return "The email domain does not accept mail"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "location", "listing_type":
		return fmt.Sprintf("%s %q is not supported", name, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
