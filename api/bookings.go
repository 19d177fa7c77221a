package api

import (
	"net/http"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// userEmailHeader carries the requester identity for cancel and meal
// updates. Matching it against the booking owner is a plain equality
// check, not authentication.
const userEmailHeader = "X-User-Email"

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
}

type bookTicketRequest struct {
	UserName    string             `json:"user_name"`
	UserEmail   string             `json:"user_email"`
	Seats       int                `json:"seats"`
	Passengers  []passengerRequest `json:"passengers"`
	SeatNumbers []string           `json:"seat_numbers"`
	MealType    string             `json:"meal_type"`
}

type updateMealRequest struct {
	MealType string `json:"meal_type"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/booking/:flightId", h.book)
	router.GET("/ticket/:pnr", h.ticket)
	router.GET("/history/:emailId", h.history)
	router.DELETE("/cancel/:pnr", h.cancel)
	router.PUT("/meal/:pnr", h.updateMeal)
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	var passengers []domain.Passenger
	if req.Passengers != nil {
		passengers = make([]domain.Passenger, 0, len(req.Passengers))
		for _, p := range req.Passengers {
			passengers = append(passengers, domain.Passenger{
				Name:   p.Name,
				Gender: domain.Gender(p.Gender),
				Age:    p.Age,
			})
		}
	}

	ticket, err := h.service.BookTicket(c.Request.Context(), c.Param("flightId"), booking.BookTicketInput{
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		Seats:       req.Seats,
		Passengers:  passengers,
		SeatNumbers: req.SeatNumbers,
		MealType:    domain.MealType(req.MealType),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *BookingHandler) ticket(c *gin.Context) {
	ticket, err := h.service.GetTicketByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *BookingHandler) history(c *gin.Context) {
	tickets, err := h.service.GetBookingHistory(c.Request.Context(), c.Param("emailId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	email := c.GetHeader(userEmailHeader)
	if email == "" {
		writeBadRequest(c, userEmailHeader+" header is required")
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), c.Param("pnr"), email); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) updateMeal(c *gin.Context) {
	email := c.GetHeader(userEmailHeader)
	if email == "" {
		writeBadRequest(c, userEmailHeader+" header is required")
		return
	}

	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	ticket, err := h.service.UpdateMealType(c.Request.Context(), c.Param("pnr"), email, domain.MealType(req.MealType))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
