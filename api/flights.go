package api

import (
	"net/http"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
}

type inventoryRequest struct {
	AirlineName         string `json:"airline_name"`
	AirlineLogoURL      string `json:"airline_logo_url"`
	FromPlace           string `json:"from_place"`
	ToPlace             string `json:"to_place"`
	DepartureDate       string `json:"departure_date"`
	DepartureTime       string `json:"departure_time"`
	ArrivalTime         string `json:"arrival_time"`
	RoundTripAvailable  bool   `json:"round_trip_available"`
	OneWayPriceCents    int64  `json:"one_way_price_cents"`
	RoundTripPriceCents int64  `json:"round_trip_price_cents"`
	TotalSeats          int    `json:"total_seats"`
}

type searchRequest struct {
	FromPlace  string `json:"from_place"`
	ToPlace    string `json:"to_place"`
	TravelDate string `json:"travel_date"`
	TripType   string `json:"trip_type"`
}

type flightResponse struct {
	ID                  string `json:"id"`
	AirlineName         string `json:"airline_name"`
	AirlineLogoURL      string `json:"airline_logo_url"`
	FromPlace           string `json:"from_place"`
	ToPlace             string `json:"to_place"`
	DepartureDate       string `json:"departure_date"`
	DepartureTime       string `json:"departure_time"`
	ArrivalTime         string `json:"arrival_time"`
	RoundTripAvailable  bool   `json:"round_trip_available"`
	OneWayPriceCents    int64  `json:"one_way_price_cents"`
	RoundTripPriceCents int64  `json:"round_trip_price_cents"`
	TotalSeats          int    `json:"total_seats"`
	AvailableSeats      int    `json:"available_seats"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/airline/inventory", h.addInventory)
	router.GET("/airline/inventory", h.list)
	router.GET("/airline/inventory/:id", h.get)
	router.POST("/search", h.search)
	router.POST("/search/ids", h.searchIDs)
}

func (h *FlightHandler) addInventory(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		writeBadRequest(c, "departure_date must be YYYY-MM-DD")
		return
	}

	flight, err := h.service.AddInventory(c.Request.Context(), flights.AddInventoryInput{
		AirlineName:         req.AirlineName,
		AirlineLogoURL:      req.AirlineLogoURL,
		FromPlace:           req.FromPlace,
		ToPlace:             req.ToPlace,
		DepartureDate:       date,
		DepartureTime:       req.DepartureTime,
		ArrivalTime:         req.ArrivalTime,
		RoundTripAvailable:  req.RoundTripAvailable,
		OneWayPriceCents:    req.OneWayPriceCents,
		RoundTripPriceCents: req.RoundTripPriceCents,
		TotalSeats:          req.TotalSeats,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]flightResponse, 0, len(all))
	for i := range all {
		out = append(out, toFlightResponse(&all[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) search(c *gin.Context) {
	input, ok := h.bindSearch(c)
	if !ok {
		return
	}
	results, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *FlightHandler) searchIDs(c *gin.Context) {
	input, ok := h.bindSearch(c)
	if !ok {
		return
	}
	ids, err := h.service.SearchIDs(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight_ids": ids})
}

func (h *FlightHandler) bindSearch(c *gin.Context) (flights.SearchInput, bool) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return flights.SearchInput{}, false
	}
	date, err := time.Parse(dateLayout, req.TravelDate)
	if err != nil {
		writeBadRequest(c, "travel_date must be YYYY-MM-DD")
		return flights.SearchInput{}, false
	}
	return flights.SearchInput{
		FromPlace:  req.FromPlace,
		ToPlace:    req.ToPlace,
		TravelDate: date,
		TripType:   domain.TripType(req.TripType),
	}, true
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:                  f.ID,
		AirlineName:         f.AirlineName,
		AirlineLogoURL:      f.AirlineLogoURL,
		FromPlace:           f.FromPlace,
		ToPlace:             f.ToPlace,
		DepartureDate:       f.DepartureDate.Format(dateLayout),
		DepartureTime:       f.DepartureTime,
		ArrivalTime:         f.ArrivalTime,
		RoundTripAvailable:  f.RoundTripAvailable,
		OneWayPriceCents:    f.OneWayPriceCents,
		RoundTripPriceCents: f.RoundTripPriceCents,
		TotalSeats:          f.TotalSeats,
		AvailableSeats:      f.AvailableSeats,
	}
}
