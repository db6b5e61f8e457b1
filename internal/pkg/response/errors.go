package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wallspace/internal/domain"
)

var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrMissingRejectionReason, http.StatusBadRequest, "MISSING_REJECTION_REASON"},
	{domain.ErrInvalidRange, http.StatusBadRequest, "INVALID_RANGE"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrManuallyClosed, http.StatusConflict, "MANUALLY_CLOSED"},
	{domain.ErrDeactivated, http.StatusConflict, "DEACTIVATED"},
	{domain.ErrCapacityExceeded, http.StatusConflict, "CAPACITY_EXCEEDED"},
	{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
	{domain.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
}

// FromError writes the envelope for a service error. Unknown errors are attached to the
// gin context for ErrorLogger and answered with a generic 500.
func FromError(c *gin.Context, err error) {
	for _, e := range domainErrors {
		if errors.Is(err, e.err) {
			Error(c, e.status, e.code, err.Error())
			return
		}
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
