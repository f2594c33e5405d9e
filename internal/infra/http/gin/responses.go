package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/services/admin"
	"stayfinder/internal/app/services/hotels"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainrange "stayfinder/internal/domain/shared/daterange"
	domainuser "stayfinder/internal/domain/user"
)

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// respondError maps domain failures onto HTTP. Admission rejections become a
// structured 400 carrying the kind and pool, so clients can tell "this hotel
// can never fit you" from "these dates are taken".
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	if ae, ok := domainbooking.AsAdmissionError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     ae.Error(),
			"kind":      ae.Kind,
			"pool":      ae.Pool,
			"requested": ae.Requested,
			"limit":     ae.Limit,
		})
		return
	}
	switch {
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrGuestRequired),
		errors.Is(err, domainhotel.ErrNameRequired),
		errors.Is(err, domainhotel.ErrCityRequired),
		errors.Is(err, domainhotel.ErrCountryRequired),
		errors.Is(err, domainhotel.ErrInvalidPrice),
		errors.Is(err, domainhotel.ErrInvalidRating),
		errors.Is(err, domainhotel.ErrInvalidCapacity),
		errors.Is(err, policies.ErrIntentMismatch),
		errors.Is(err, policies.ErrIntentNotCaught):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainhotel.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound),
		errors.Is(err, policies.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotAllowed),
		errors.Is(err, hotels.ErrNotAllowed),
		errors.Is(err, admin.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
