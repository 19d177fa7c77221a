package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/repository"
	"github.com/google/uuid"
)

type FlightUseCase interface {
	AddInventory(ctx context.Context, input AddInventoryInput) (*domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]SearchResult, error)
	SearchIDs(ctx context.Context, input SearchInput) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
}

// Cache holds route search results between the service and redis.
type Cache interface {
	GetRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error)
	SetRoute(ctx context.Context, fromPlace, toPlace string, date time.Time, flights []domain.Flight) error
	InvalidateRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

type AddInventoryInput struct {
	AirlineName         string
	AirlineLogoURL      string
	FromPlace           string
	ToPlace             string
	DepartureDate       time.Time
	DepartureTime       string
	ArrivalTime         string
	RoundTripAvailable  bool
	OneWayPriceCents    int64
	RoundTripPriceCents int64
	TotalSeats          int
}

type SearchInput struct {
	FromPlace  string
	ToPlace    string
	TravelDate time.Time
	TripType   domain.TripType
}

type SearchResult struct {
	FlightID            string    `json:"flight_id"`
	AirlineName         string    `json:"airline_name"`
	AirlineLogoURL      string    `json:"airline_logo_url"`
	FromPlace           string    `json:"from_place"`
	ToPlace             string    `json:"to_place"`
	DepartureDate       time.Time `json:"departure_date"`
	DepartureTime       string    `json:"departure_time"`
	ArrivalTime         string    `json:"arrival_time"`
	OneWayPriceCents    int64     `json:"one_way_price_cents"`
	RoundTripPriceCents int64     `json:"round_trip_price_cents"`
	RoundTripAvailable  bool      `json:"round_trip_available"`
	AvailableSeats      int       `json:"available_seats"`
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) AddInventory(ctx context.Context, input AddInventoryInput) (*domain.Flight, error) {
	if err := validateAddInventory(input); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		ID:                  uuid.NewString(),
		AirlineName:         input.AirlineName,
		AirlineLogoURL:      input.AirlineLogoURL,
		FromPlace:           input.FromPlace,
		ToPlace:             input.ToPlace,
		DepartureDate:       truncateToDate(input.DepartureDate),
		DepartureTime:       input.DepartureTime,
		ArrivalTime:         input.ArrivalTime,
		RoundTripAvailable:  input.RoundTripAvailable,
		OneWayPriceCents:    input.OneWayPriceCents,
		RoundTripPriceCents: input.RoundTripPriceCents,
		TotalSeats:          input.TotalSeats,
		AvailableSeats:      input.TotalSeats,
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateRoute(ctx, flight.FromPlace, flight.ToPlace, flight.DepartureDate)
	}
	return flight, nil
}

// Search returns matching flights. An empty match is an empty slice, not an
// error; SearchIDs is the strict variant.
func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]SearchResult, error) {
	flights, err := s.matchingFlights(ctx, input)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(flights))
	for _, f := range flights {
		results = append(results, SearchResult{
			FlightID:            f.ID,
			AirlineName:         f.AirlineName,
			AirlineLogoURL:      f.AirlineLogoURL,
			FromPlace:           f.FromPlace,
			ToPlace:             f.ToPlace,
			DepartureDate:       f.DepartureDate,
			DepartureTime:       f.DepartureTime,
			ArrivalTime:         f.ArrivalTime,
			OneWayPriceCents:    f.OneWayPriceCents,
			RoundTripPriceCents: f.RoundTripPriceCents,
			RoundTripAvailable:  f.RoundTripAvailable,
			AvailableSeats:      f.AvailableSeats,
		})
	}
	return results, nil
}

// SearchIDs returns only flight ids and, unlike Search, fails with
// domain.ErrNotFound when nothing matches.
func (s *FlightService) SearchIDs(ctx context.Context, input SearchInput) ([]string, error) {
	flights, err := s.matchingFlights(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, fmt.Errorf("no flights for %s to %s: %w", input.FromPlace, input.ToPlace, domain.ErrNotFound)
	}

	ids := make([]string, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) matchingFlights(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	if err := validateSearch(input); err != nil {
		return nil, err
	}

	date := truncateToDate(input.TravelDate)
	flights, err := s.routeFlights(ctx, input.FromPlace, input.ToPlace, date)
	if err != nil {
		return nil, err
	}

	if input.TripType == domain.TripTypeRoundTrip {
		filtered := flights[:0]
		for _, f := range flights {
			if f.RoundTripAvailable {
				filtered = append(filtered, f)
			}
		}
		flights = filtered
	}
	return flights, nil
}

func (s *FlightService) routeFlights(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoute(ctx, fromPlace, toPlace, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.GetByRoute(ctx, fromPlace, toPlace, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRoute(ctx, fromPlace, toPlace, date, flights)
	}
	return flights, nil
}

func validateAddInventory(input AddInventoryInput) error {
	if input.AirlineName == "" {
		return fmt.Errorf("%w: airline name is required", domain.ErrInvalidRequest)
	}
	if input.FromPlace == "" || input.ToPlace == "" {
		return fmt.Errorf("%w: from place and to place are required", domain.ErrInvalidRequest)
	}
	if strings.EqualFold(input.FromPlace, input.ToPlace) {
		return fmt.Errorf("%w: from place and to place must differ", domain.ErrInvalidRequest)
	}
	for _, hhmm := range []string{input.DepartureTime, input.ArrivalTime} {
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return fmt.Errorf("%w: time %q must be HH:MM", domain.ErrInvalidRequest, hhmm)
		}
	}
	if input.TotalSeats < 1 {
		return fmt.Errorf("%w: total seats must be positive", domain.ErrInvalidRequest)
	}
	if input.OneWayPriceCents <= 0 {
		return fmt.Errorf("%w: one-way price must be positive", domain.ErrInvalidRequest)
	}
	if input.RoundTripAvailable && input.RoundTripPriceCents <= 0 {
		return fmt.Errorf("%w: round-trip price must be positive when round trip is offered", domain.ErrInvalidRequest)
	}
	return nil
}

func validateSearch(input SearchInput) error {
	if input.FromPlace == "" || input.ToPlace == "" {
		return fmt.Errorf("%w: from place and to place are required", domain.ErrInvalidRequest)
	}
	if strings.EqualFold(input.FromPlace, input.ToPlace) {
		return fmt.Errorf("%w: from place and to place must differ", domain.ErrInvalidRequest)
	}
	if !input.TripType.Valid() {
		return fmt.Errorf("%w: unknown trip type %q", domain.ErrInvalidRequest, input.TripType)
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ FlightUseCase = (*FlightService)(nil)
