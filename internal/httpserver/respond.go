package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shopcart-api/internal/domain"
	adminsvc "shopcart-api/internal/service/admin"
	checkoutsvc "shopcart-api/internal/service/checkout"
	reviewsvc "shopcart-api/internal/service/review"
	sessionsvc "shopcart-api/internal/service/session"
)

// respondErr maps service errors onto HTTP statuses with a user-facing
// message. Unknown errors become a 500 with a generic body; the caller has
// already logged the detail.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, sessionsvc.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sessionsvc.ErrInvalidCredentials),
		errors.Is(err, sessionsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, checkoutsvc.ErrPromoNotFound),
		errors.Is(err, checkoutsvc.ErrPromoInactive),
		errors.Is(err, checkoutsvc.ErrPromoExpired),
		errors.Is(err, checkoutsvc.ErrPromoUsageExceeded),
		errors.Is(err, checkoutsvc.ErrPromoMinOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, adminsvc.ErrMainImageNotListed),
		errors.Is(err, adminsvc.ErrRatingStep),
		errors.Is(err, adminsvc.ErrInvalidStatus),
		errors.Is(err, adminsvc.ErrInvalidRole),
		errors.Is(err, reviewsvc.ErrRatingOutOfRange),
		errors.Is(err, reviewsvc.ErrEmptyText),
		isValidationErr(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationErr(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}
