package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/kafka"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/pnr"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/repository"
)

// cancelWindow is how long before departure a booking becomes immutable.
// Cancellation and meal changes are rejected once inside the window.
const cancelWindow = 24 * time.Hour

const pnrAttempts = 3

type BookingUseCase interface {
	BookTicket(ctx context.Context, flightID string, input BookTicketInput) (*TicketView, error)
	GetTicketByPNR(ctx context.Context, pnr string) (*TicketView, error)
	GetBookingHistory(ctx context.Context, email string) ([]TicketView, error)
	CancelBooking(ctx context.Context, pnr, requesterEmail string) error
	UpdateMealType(ctx context.Context, pnr, requesterEmail string, meal domain.MealType) (*TicketView, error)
}

// Inventory is the seat accounting dependency. Reserve returns the
// post-decrement flight snapshot.
type Inventory interface {
	Reserve(ctx context.Context, flightID string, count int) (*domain.Flight, error)
	Release(ctx context.Context, flightID string, count int) (*domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	inventory          Inventory
	locators           pnr.Generator
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	storeTimeout       time.Duration
	now                func() time.Time
}

type BookTicketInput struct {
	UserName    string
	UserEmail   string
	Seats       int
	Passengers  []domain.Passenger
	SeatNumbers []string
	MealType    domain.MealType
}

// TicketView joins a booking with its flight for the transport layer.
type TicketView struct {
	PNR            string               `json:"pnr"`
	FlightID       string               `json:"flight_id"`
	AirlineName    string               `json:"airline_name"`
	AirlineLogoURL string               `json:"airline_logo_url"`
	FromPlace      string               `json:"from_place"`
	ToPlace        string               `json:"to_place"`
	DepartureDate  time.Time            `json:"departure_date"`
	DepartureTime  string               `json:"departure_time"`
	ArrivalTime    string               `json:"arrival_time"`
	UserName       string               `json:"user_name"`
	UserEmail      string               `json:"user_email"`
	Seats          int                  `json:"seats"`
	Passengers     []domain.Passenger   `json:"passengers"`
	SeatNumbers    []string             `json:"seat_numbers"`
	MealType       domain.MealType      `json:"meal_type"`
	Status         domain.BookingStatus `json:"status"`
	BookedAt       time.Time            `json:"booked_at"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
}

type Option func(*BookingService)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithNotificationsTopic(topic string) Option {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithStoreTimeout bounds every storage round trip of an operation.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *BookingService) {
		s.storeTimeout = d
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	inventory Inventory,
	locators pnr.Generator,
	producer Producer,
	eventsTopic string,
	opts ...Option,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		inventory:   inventory,
		locators:    locators,
		producer:    producer,
		eventsTopic: eventsTopic,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) BookTicket(ctx context.Context, flightID string, input BookTicketInput) (*TicketView, error) {
	if err := validateBookTicket(input); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// Seats are debited before the booking record exists. If the insert
	// below fails the debit is compensated with a release.
	flight, err := s.inventory.Reserve(ctx, flightID, input.Seats)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	locator, err := s.uniqueLocator(ctx)
	if err != nil {
		s.compensate(ctx, flightID, input.Seats)
		return nil, err
	}

	booking := &domain.Booking{
		PNR:              locator,
		FlightID:         flight.ID,
		UserName:         input.UserName,
		UserEmail:        input.UserEmail,
		Seats:            input.Seats,
		Passengers:       input.Passengers,
		SeatNumbers:      input.SeatNumbers,
		MealType:         input.MealType,
		Status:           domain.BookingStatusBooked,
		BookedAt:         s.now(),
		JourneyDate:      flight.DepartureDate,
		JourneyDeparture: flight.DepartureInstant(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.compensate(ctx, flightID, input.Seats)
		return nil, mapStoreErr(err)
	}

	s.publish(ctx, "booking_created", booking)
	return ticketView(booking, flight), nil
}

func (s *BookingService) GetTicketByPNR(ctx context.Context, locator string) (*TicketView, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	booking, err := s.bookings.GetByPNR(ctx, locator)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return ticketView(booking, flight), nil
}

func (s *BookingService) GetBookingHistory(ctx context.Context, email string) ([]TicketView, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	bookings, err := s.bookings.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	tickets := make([]TicketView, 0, len(bookings))
	for i := range bookings {
		flight, err := s.flights.GetByID(ctx, bookings[i].FlightID)
		if errors.Is(err, domain.ErrNotFound) {
			// orphaned booking, skip rather than fail the whole history
			continue
		}
		if err != nil {
			return nil, mapStoreErr(err)
		}
		tickets = append(tickets, *ticketView(&bookings[i], flight))
	}
	return tickets, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, locator, requesterEmail string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	booking, err := s.guardedBooking(ctx, locator, requesterEmail)
	if err != nil {
		return err
	}

	now := s.now()
	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now

	// Inventory is credited before the booking record is rewritten,
	// mirroring the debit-first ordering of BookTicket.
	if _, err := s.inventory.Release(ctx, booking.FlightID, booking.Seats); err != nil {
		return mapStoreErr(err)
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return mapStoreErr(err)
	}

	s.publish(ctx, "booking_cancelled", booking)
	return nil
}

func (s *BookingService) UpdateMealType(ctx context.Context, locator, requesterEmail string, meal domain.MealType) (*TicketView, error) {
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", domain.ErrInvalidRequest, meal)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	booking, err := s.guardedBooking(ctx, locator, requesterEmail)
	if err != nil {
		return nil, err
	}

	booking.MealType = meal

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, mapStoreErr(err)
	}
	return ticketView(booking, flight), nil
}

// guardedBooking loads a booking and runs the shared cancel/update guard
// chain: ownership, not-yet-cancelled, outside the 24h departure window.
func (s *BookingService) guardedBooking(ctx context.Context, locator, requesterEmail string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByPNR(ctx, locator)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !booking.OwnedBy(requesterEmail) {
		return nil, domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if !booking.JourneyDeparture.Add(-cancelWindow).After(s.now()) {
		return nil, domain.ErrCancellationWindowClosed
	}
	return booking, nil
}

// uniqueLocator generates a PNR and regenerates when the store already holds
// it. The generator's short random part makes collisions unlikely but not
// impossible.
func (s *BookingService) uniqueLocator(ctx context.Context) (string, error) {
	for attempt := 0; attempt < pnrAttempts; attempt++ {
		locator := s.locators.Generate()
		_, err := s.bookings.GetByPNR(ctx, locator)
		if errors.Is(err, domain.ErrNotFound) {
			return locator, nil
		}
		if err != nil {
			return "", mapStoreErr(err)
		}
	}
	return "", fmt.Errorf("could not allocate a unique pnr: %w", domain.ErrStoreUnavailable)
}

func (s *BookingService) compensate(ctx context.Context, flightID string, seats int) {
	if _, err := s.inventory.Release(ctx, flightID, seats); err != nil {
		log.Printf("compensating release failed for flight %s (%d seats): %v", flightID, seats, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		PNR:         booking.PNR,
		FlightID:    booking.FlightID,
		Email:       booking.UserEmail,
		Seats:       booking.Seats,
		Status:      string(booking.Status),
		JourneyDate: booking.JourneyDate,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.PNR, event); err != nil {
		log.Printf("publish %s event for %s: %v", eventType, booking.PNR, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event); err != nil {
			log.Printf("publish %s notification for %s: %v", eventType, booking.PNR, err)
		}
	}
}

func (s *BookingService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func validateBookTicket(input BookTicketInput) error {
	if input.UserName == "" || input.UserEmail == "" {
		return fmt.Errorf("%w: user name and email are required", domain.ErrInvalidRequest)
	}
	if input.Passengers == nil || input.SeatNumbers == nil {
		return fmt.Errorf("%w: passengers and seat numbers are required", domain.ErrInvalidRequest)
	}
	if input.Seats < 1 {
		return fmt.Errorf("%w: at least one seat must be booked", domain.ErrInvalidRequest)
	}
	if input.Seats != len(input.Passengers) || input.Seats != len(input.SeatNumbers) {
		return fmt.Errorf("%w: number of seats must match passengers count and seat numbers count", domain.ErrInvalidRequest)
	}
	if !input.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", domain.ErrInvalidRequest, input.MealType)
	}
	for _, p := range input.Passengers {
		if p.Name == "" {
			return fmt.Errorf("%w: passenger name is required", domain.ErrInvalidRequest)
		}
		if !p.Gender.Valid() {
			return fmt.Errorf("%w: unknown gender %q", domain.ErrInvalidRequest, p.Gender)
		}
		if p.Age < 0 {
			return fmt.Errorf("%w: age cannot be negative", domain.ErrInvalidRequest)
		}
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

func ticketView(b *domain.Booking, f *domain.Flight) *TicketView {
	return &TicketView{
		PNR:            b.PNR,
		FlightID:       f.ID,
		AirlineName:    f.AirlineName,
		AirlineLogoURL: f.AirlineLogoURL,
		FromPlace:      f.FromPlace,
		ToPlace:        f.ToPlace,
		DepartureDate:  f.DepartureDate,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		UserName:       b.UserName,
		UserEmail:      b.UserEmail,
		Seats:          b.Seats,
		Passengers:     b.Passengers,
		SeatNumbers:    b.SeatNumbers,
		MealType:       b.MealType,
		Status:         b.Status,
		BookedAt:       b.BookedAt,
		CancelledAt:    b.CancelledAt,
	}
}

var _ BookingUseCase = (*BookingService)(nil)
