package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/inventory"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/pnr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, fromPlace, toPlace, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) UpdateSeats(ctx context.Context, id string, expected, updated int) error {
	args := m.Called(ctx, id, expected, updated)
	return args.Error(0)
}

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) Reserve(ctx context.Context, flightID string, count int) (*domain.Flight, error) {
	args := m.Called(ctx, flightID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockInventory) Release(ctx context.Context, flightID string, count int) (*domain.Flight, error) {
	args := m.Called(ctx, flightID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate() string {
	return m.Called().String(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var (
	fixedNow     = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	journeyDate  = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	journeyStart = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func sampleFlight(available int) *domain.Flight {
	return &domain.Flight{
		ID:               "flight-1",
		AirlineName:      "StarJet",
		AirlineLogoURL:   "https://cdn.example.com/starjet.png",
		FromPlace:        "Delhi",
		ToPlace:          "Mumbai",
		DepartureDate:    journeyDate,
		DepartureTime:    "09:30",
		ArrivalTime:      "11:45",
		OneWayPriceCents: 550000,
		TotalSeats:       100,
		AvailableSeats:   available,
	}
}

func sampleInput() BookTicketInput {
	return BookTicketInput{
		UserName:  "Asha Rao",
		UserEmail: "asha@example.com",
		Seats:     2,
		Passengers: []domain.Passenger{
			{Name: "Asha Rao", Gender: domain.GenderFemale, Age: 34},
			{Name: "Vikram Rao", Gender: domain.GenderMale, Age: 36},
		},
		SeatNumbers: []string{"12A", "12B"},
		MealType:    domain.MealTypeVeg,
	}
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		PNR:              "ABC123010930",
		FlightID:         "flight-1",
		UserName:         "Asha Rao",
		UserEmail:        "asha@example.com",
		Seats:            2,
		Passengers:       sampleInput().Passengers,
		SeatNumbers:      []string{"12A", "12B"},
		MealType:         domain.MealTypeVeg,
		Status:           domain.BookingStatusBooked,
		BookedAt:         fixedNow.Add(-48 * time.Hour),
		JourneyDate:      journeyDate,
		JourneyDeparture: journeyStart,
	}
}

func newTestService(bookings *MockBookingRepository, flights *MockFlightRepository, inv *MockInventory, gen *MockGenerator, producer *MockProducer) *BookingService {
	return NewBookingService(bookings, flights, inv, gen, producer, "booking_events", WithClock(fixedClock))
}

func TestBookingService_BookTicket_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	inv := &MockInventory{}
	gen := &MockGenerator{}
	producer := &MockProducer{}
	service := newTestService(bookings, flights, inv, gen, producer)

	ctx := context.Background()
	reserved := sampleFlight(98)

	inv.On("Reserve", mock.Anything, "flight-1", 2).Return(reserved, nil).Once()
	gen.On("Generate").Return("ABC123010930").Once()
	bookings.On("GetByPNR", mock.Anything, "ABC123010930").Return(nil, domain.ErrNotFound).Once()

	var created *domain.Booking
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Booking) }).
		Return(nil).Once()
	producer.On("Publish", mock.Anything, "booking_events", "ABC123010930", mock.Anything).Return(nil).Once()

	ticket, err := service.BookTicket(ctx, "flight-1", sampleInput())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Equal(t, "ABC123010930", ticket.PNR)
	assert.Equal(t, "StarJet", ticket.AirlineName)
	assert.Equal(t, domain.BookingStatusBooked, ticket.Status)
	assert.Equal(t, fixedNow, ticket.BookedAt)

	require.NotNil(t, created)
	assert.Equal(t, journeyDate, created.JourneyDate)
	assert.Equal(t, journeyStart, created.JourneyDeparture, "departure instant must be snapshotted from the reserved flight")
	assert.Len(t, created.Passengers, 2)

	inv.AssertExpectations(t)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_BookTicket_ValidationErrors(t *testing.T) {
	inv := &MockInventory{}
	service := newTestService(&MockBookingRepository{}, &MockFlightRepository{}, inv, &MockGenerator{}, &MockProducer{})
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*BookTicketInput)
	}{
		{"missing passengers", func(in *BookTicketInput) { in.Passengers = nil }},
		{"missing seat numbers", func(in *BookTicketInput) { in.SeatNumbers = nil }},
		{"seat count above passenger count", func(in *BookTicketInput) { in.Seats = 3 }},
		{"seat count below passenger count", func(in *BookTicketInput) { in.Seats = 1 }},
		{"zero seats", func(in *BookTicketInput) {
			in.Seats = 0
			in.Passengers = []domain.Passenger{}
			in.SeatNumbers = []string{}
		}},
		{"missing user name", func(in *BookTicketInput) { in.UserName = "" }},
		{"missing email", func(in *BookTicketInput) { in.UserEmail = "" }},
		{"bad meal type", func(in *BookTicketInput) { in.MealType = "SPICY" }},
		{"bad gender", func(in *BookTicketInput) { in.Passengers[0].Gender = "X" }},
		{"negative age", func(in *BookTicketInput) { in.Passengers[0].Age = -1 }},
		{"blank passenger name", func(in *BookTicketInput) { in.Passengers[0].Name = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := sampleInput()
			tc.mutate(&input)

			ticket, err := service.BookTicket(ctx, "flight-1", input)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Nil(t, ticket)
		})
	}

	// no validation failure may touch inventory
	inv.AssertNotCalled(t, "Reserve")
}

func TestBookingService_BookTicket_InsufficientSeats(t *testing.T) {
	bookings := &MockBookingRepository{}
	inv := &MockInventory{}
	service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, &MockProducer{})

	inv.On("Reserve", mock.Anything, "flight-1", 2).Return(nil, domain.ErrInsufficientSeats).Once()

	ticket, err := service.BookTicket(context.Background(), "flight-1", sampleInput())
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
	assert.Nil(t, ticket)
	bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_BookTicket_FlightMissing(t *testing.T) {
	inv := &MockInventory{}
	service := newTestService(&MockBookingRepository{}, &MockFlightRepository{}, inv, &MockGenerator{}, &MockProducer{})

	inv.On("Reserve", mock.Anything, "ghost", 2).Return(nil, domain.ErrNotFound).Once()

	_, err := service.BookTicket(context.Background(), "ghost", sampleInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_BookTicket_CompensatesWhenPersistFails(t *testing.T) {
	bookings := &MockBookingRepository{}
	inv := &MockInventory{}
	gen := &MockGenerator{}
	service := newTestService(bookings, &MockFlightRepository{}, inv, gen, &MockProducer{})

	inv.On("Reserve", mock.Anything, "flight-1", 2).Return(sampleFlight(98), nil).Once()
	gen.On("Generate").Return("ABC123010930").Once()
	bookings.On("GetByPNR", mock.Anything, "ABC123010930").Return(nil, domain.ErrNotFound).Once()
	bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()
	inv.On("Release", mock.Anything, "flight-1", 2).Return(sampleFlight(100), nil).Once()

	_, err := service.BookTicket(context.Background(), "flight-1", sampleInput())
	assert.Error(t, err)

	// the reserved seats were returned to the pool
	inv.AssertExpectations(t)
}

func TestBookingService_BookTicket_RegeneratesPNROnCollision(t *testing.T) {
	bookings := &MockBookingRepository{}
	inv := &MockInventory{}
	gen := &MockGenerator{}
	producer := &MockProducer{}
	service := newTestService(bookings, &MockFlightRepository{}, inv, gen, producer)

	inv.On("Reserve", mock.Anything, "flight-1", 2).Return(sampleFlight(98), nil).Once()
	gen.On("Generate").Return("TAKEN1010930").Once()
	gen.On("Generate").Return("FRESH1010930").Once()
	bookings.On("GetByPNR", mock.Anything, "TAKEN1010930").Return(sampleBooking(), nil).Once()
	bookings.On("GetByPNR", mock.Anything, "FRESH1010930").Return(nil, domain.ErrNotFound).Once()
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.PNR == "FRESH1010930"
	})).Return(nil).Once()
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ticket, err := service.BookTicket(context.Background(), "flight-1", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "FRESH1010930", ticket.PNR)
	bookings.AssertExpectations(t)
}

func TestBookingService_GetTicketByPNR(t *testing.T) {
	t.Run("joins booking and flight", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		flights := &MockFlightRepository{}
		service := newTestService(bookings, flights, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		booking := sampleBooking()
		bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
		flights.On("GetByID", mock.Anything, "flight-1").Return(sampleFlight(98), nil).Once()

		ticket, err := service.GetTicketByPNR(context.Background(), booking.PNR)
		require.NoError(t, err)
		assert.Equal(t, booking.PNR, ticket.PNR)
		assert.Equal(t, "Delhi", ticket.FromPlace)
		assert.Equal(t, "Mumbai", ticket.ToPlace)
		assert.Equal(t, booking.SeatNumbers, ticket.SeatNumbers)
	})

	t.Run("booking missing", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		service := newTestService(bookings, &MockFlightRepository{}, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		bookings.On("GetByPNR", mock.Anything, "NOPE").Return(nil, domain.ErrNotFound).Once()

		_, err := service.GetTicketByPNR(context.Background(), "NOPE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("flight gone", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		flights := &MockFlightRepository{}
		service := newTestService(bookings, flights, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		bookings.On("GetByPNR", mock.Anything, "ABC123010930").Return(sampleBooking(), nil).Once()
		flights.On("GetByID", mock.Anything, "flight-1").Return(nil, domain.ErrNotFound).Once()

		_, err := service.GetTicketByPNR(context.Background(), "ABC123010930")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingService_GetBookingHistory_SkipsOrphanedBookings(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	service := newTestService(bookings, flights, &MockInventory{}, &MockGenerator{}, &MockProducer{})

	first := *sampleBooking()
	second := *sampleBooking()
	second.PNR = "DEF456010930"
	second.FlightID = "flight-gone"

	bookings.On("GetByEmail", mock.Anything, "asha@example.com").
		Return([]domain.Booking{first, second}, nil).Once()
	flights.On("GetByID", mock.Anything, "flight-1").Return(sampleFlight(98), nil).Once()
	flights.On("GetByID", mock.Anything, "flight-gone").Return(nil, domain.ErrNotFound).Once()

	tickets, err := service.GetBookingHistory(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, first.PNR, tickets[0].PNR)
}

func TestBookingService_GetBookingHistory_Empty(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := newTestService(bookings, &MockFlightRepository{}, &MockInventory{}, &MockGenerator{}, &MockProducer{})

	bookings.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return([]domain.Booking{}, nil).Once()

	tickets, err := service.GetBookingHistory(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	inv := &MockInventory{}
	producer := &MockProducer{}
	service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, producer)

	booking := sampleBooking()
	bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
	inv.On("Release", mock.Anything, "flight-1", 2).Return(sampleFlight(100), nil).Once()
	bookings.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusCancelled && b.CancelledAt != nil && b.CancelledAt.Equal(fixedNow)
	})).Return(nil).Once()
	producer.On("Publish", mock.Anything, "booking_events", booking.PNR, mock.Anything).Return(nil).Once()

	err := service.CancelBooking(context.Background(), booking.PNR, "asha@example.com")
	require.NoError(t, err)

	bookings.AssertExpectations(t)
	inv.AssertExpectations(t)
}

func TestBookingService_CancelBooking_EmailMatchIsCaseInsensitive(t *testing.T) {
	bookings := &MockBookingRepository{}
	inv := &MockInventory{}
	producer := &MockProducer{}
	service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, producer)

	booking := sampleBooking()
	bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
	inv.On("Release", mock.Anything, "flight-1", 2).Return(sampleFlight(100), nil).Once()
	bookings.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := service.CancelBooking(context.Background(), booking.PNR, "ASHA@Example.COM")
	assert.NoError(t, err)
}

func TestBookingService_CancelBooking_Guards(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		service := newTestService(bookings, &MockFlightRepository{}, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		bookings.On("GetByPNR", mock.Anything, "NOPE").Return(nil, domain.ErrNotFound).Once()

		err := service.CancelBooking(context.Background(), "NOPE", "asha@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("forbidden for another user", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		inv := &MockInventory{}
		service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, &MockProducer{})

		bookings.On("GetByPNR", mock.Anything, "ABC123010930").Return(sampleBooking(), nil).Once()

		err := service.CancelBooking(context.Background(), "ABC123010930", "intruder@example.com")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		inv.AssertNotCalled(t, "Release")
	})

	t.Run("already cancelled", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		inv := &MockInventory{}
		service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, &MockProducer{})

		cancelled := sampleBooking()
		cancelled.Status = domain.BookingStatusCancelled
		when := fixedNow.Add(-time.Hour)
		cancelled.CancelledAt = &when
		bookings.On("GetByPNR", mock.Anything, cancelled.PNR).Return(cancelled, nil).Once()

		err := service.CancelBooking(context.Background(), cancelled.PNR, "asha@example.com")
		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
		inv.AssertNotCalled(t, "Release")
	})
}

func TestBookingService_CancelBooking_WindowEdge(t *testing.T) {
	testCases := []struct {
		name      string
		departure time.Time
		wantErr   error
	}{
		{"journey already departed", fixedNow.Add(-time.Hour), domain.ErrCancellationWindowClosed},
		{"inside the window", fixedNow.Add(23 * time.Hour), domain.ErrCancellationWindowClosed},
		{"exactly 24h before departure", fixedNow.Add(24 * time.Hour), domain.ErrCancellationWindowClosed},
		{"one second outside the window", fixedNow.Add(24*time.Hour + time.Second), nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bookings := &MockBookingRepository{}
			inv := &MockInventory{}
			producer := &MockProducer{}
			service := newTestService(bookings, &MockFlightRepository{}, inv, &MockGenerator{}, producer)

			booking := sampleBooking()
			booking.JourneyDeparture = tc.departure
			bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
			if tc.wantErr == nil {
				inv.On("Release", mock.Anything, "flight-1", 2).Return(sampleFlight(100), nil).Once()
				bookings.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
				producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			}

			err := service.CancelBooking(context.Background(), booking.PNR, "asha@example.com")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				inv.AssertNotCalled(t, "Release")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_UpdateMealType(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		flights := &MockFlightRepository{}
		inv := &MockInventory{}
		service := newTestService(bookings, flights, inv, &MockGenerator{}, &MockProducer{})

		booking := sampleBooking()
		bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
		flights.On("GetByID", mock.Anything, "flight-1").Return(sampleFlight(98), nil).Once()
		bookings.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.MealType == domain.MealTypeNonVeg && b.Status == domain.BookingStatusBooked
		})).Return(nil).Once()

		ticket, err := service.UpdateMealType(context.Background(), booking.PNR, "asha@example.com", domain.MealTypeNonVeg)
		require.NoError(t, err)
		assert.Equal(t, domain.MealTypeNonVeg, ticket.MealType)

		// meal changes never touch inventory
		inv.AssertNotCalled(t, "Reserve")
		inv.AssertNotCalled(t, "Release")
	})

	t.Run("invalid meal type", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		service := newTestService(bookings, &MockFlightRepository{}, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		_, err := service.UpdateMealType(context.Background(), "ABC123010930", "asha@example.com", "SPICY")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		bookings.AssertNotCalled(t, "GetByPNR")
	})

	t.Run("window closed", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		service := newTestService(bookings, &MockFlightRepository{}, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		booking := sampleBooking()
		booking.JourneyDeparture = fixedNow.Add(2 * time.Hour)
		bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()

		_, err := service.UpdateMealType(context.Background(), booking.PNR, "asha@example.com", domain.MealTypeNonVeg)
		assert.ErrorIs(t, err, domain.ErrCancellationWindowClosed)
	})

	t.Run("flight gone", func(t *testing.T) {
		bookings := &MockBookingRepository{}
		flights := &MockFlightRepository{}
		service := newTestService(bookings, flights, &MockInventory{}, &MockGenerator{}, &MockProducer{})

		booking := sampleBooking()
		bookings.On("GetByPNR", mock.Anything, booking.PNR).Return(booking, nil).Once()
		flights.On("GetByID", mock.Anything, "flight-1").Return(nil, domain.ErrNotFound).Once()

		_, err := service.UpdateMealType(context.Background(), booking.PNR, "asha@example.com", domain.MealTypeNonVeg)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// In-memory stores driving the full booking lifecycle through the real
// inventory manager: book until sold out, fail, cancel, rebook.
type memFlights struct {
	mu      sync.Mutex
	flights map[string]*domain.Flight
}

func (r *memFlights) Create(ctx context.Context, f *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flights[f.ID] = f
	return nil
}

func (r *memFlights) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *memFlights) GetByRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error) {
	return nil, nil
}

func (r *memFlights) List(ctx context.Context) ([]domain.Flight, error) { return nil, nil }

func (r *memFlights) UpdateSeats(ctx context.Context, id string, expected, updated int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return domain.ErrNotFound
	}
	if f.AvailableSeats != expected {
		return domain.ErrConflict
	}
	f.AvailableSeats = updated
	return nil
}

type memBookings struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
}

func (r *memBookings) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.PNR] = &copied
	return nil
}

func (r *memBookings) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[pnr]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookings) GetByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookings) Update(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.PNR]; !ok {
		return domain.ErrNotFound
	}
	copied := *b
	r.bookings[b.PNR] = &copied
	return nil
}

func TestBookingService_LifecycleScenario(t *testing.T) {
	ctx := context.Background()
	flight := sampleFlight(2)
	flight.TotalSeats = 2

	flightStore := &memFlights{flights: map[string]*domain.Flight{flight.ID: flight}}
	bookingStore := &memBookings{bookings: map[string]*domain.Booking{}}
	manager := inventory.NewManager(flightStore)
	service := NewBookingService(
		bookingStore, flightStore, manager,
		pnr.NewGenerator(pnr.WithClock(fixedClock)),
		nil, "",
		WithClock(fixedClock),
	)

	input := sampleInput()

	// book both seats
	first, err := service.BookTicket(ctx, flight.ID, input)
	require.NoError(t, err)

	stored, _ := flightStore.GetByID(ctx, flight.ID)
	assert.Equal(t, 0, stored.AvailableSeats)

	// a third seat is not there
	overflow := sampleInput()
	overflow.Seats = 1
	overflow.Passengers = overflow.Passengers[:1]
	overflow.SeatNumbers = overflow.SeatNumbers[:1]
	_, err = service.BookTicket(ctx, flight.ID, overflow)
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)

	// cancelling the first booking frees its seats
	require.NoError(t, service.CancelBooking(ctx, first.PNR, input.UserEmail))
	stored, _ = flightStore.GetByID(ctx, flight.ID)
	assert.Equal(t, 2, stored.AvailableSeats)

	// and the flight can be booked out again
	_, err = service.BookTicket(ctx, flight.ID, input)
	require.NoError(t, err)
	stored, _ = flightStore.GetByID(ctx, flight.ID)
	assert.Equal(t, 0, stored.AvailableSeats)
}
