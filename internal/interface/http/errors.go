package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/stray2stay/api/internal/application"
	"github.com/stray2stay/api/pkg/response"
)

// statusFor maps service-level failures onto the error taxonomy: absent
// entities, ownership failures, missing required input, and business-rule
// conflicts.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrAnimalNotFound),
		errors.Is(err, app.ErrAdopterNotFound),
		errors.Is(err, app.ErrAdoptionNotFound),
		errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotPoster),
		errors.Is(err, app.ErrNotRequestPoster):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNoPhotos),
		errors.Is(err, app.ErrInvalidAnimalType),
		errors.Is(err, app.ErrMissingLocation):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrAlreadyAdopted),
		errors.Is(err, app.ErrSelfInterest),
		errors.Is(err, app.ErrDuplicateInterest),
		errors.Is(err, app.ErrSelfAdoption),
		errors.Is(err, app.ErrDuplicateRequest),
		errors.Is(err, app.ErrUnknownStatus),
		errors.Is(err, app.ErrInvalidTransition),
		errors.Is(err, app.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	response.Error[any](c, status, msg, nil)
}
