package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// writeError translates domain failures into HTTP statuses. Everything the
// services return is a wrapped sentinel from internal/domain.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInsufficientSeats):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrCancellationWindowClosed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, errorBody{Timestamp: time.Now().UTC(), Message: err.Error()})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Timestamp: time.Now().UTC(), Message: message})
}
