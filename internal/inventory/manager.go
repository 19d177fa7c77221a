package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/repository"
)

const defaultAttempts = 5

// Manager owns the seat counter of a flight. All mutations go through an
// optimistic compare-and-set on the stored row: the counter is read, checked
// and conditionally written, and a lost race re-reads and retries. Two
// concurrent reservations against the same flight can therefore never both
// succeed on the last seat.
type Manager struct {
	flights  repository.FlightRepository
	attempts int
}

type Option func(*Manager)

// WithAttempts bounds the CAS retry loop.
func WithAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.attempts = n
		}
	}
}

func NewManager(flights repository.FlightRepository, opts ...Option) *Manager {
	m := &Manager{flights: flights, attempts: defaultAttempts}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reserve atomically debits count seats and returns the post-decrement
// flight snapshot. When fewer than count seats remain it fails with
// domain.ErrInsufficientSeats and writes nothing.
func (m *Manager) Reserve(ctx context.Context, flightID string, count int) (*domain.Flight, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: seat count must be positive", domain.ErrInvalidRequest)
	}
	for attempt := 0; attempt < m.attempts; attempt++ {
		flight, err := m.flights.GetByID(ctx, flightID)
		if err != nil {
			return nil, err
		}
		if flight.AvailableSeats < count {
			return nil, domain.ErrInsufficientSeats
		}
		updated := flight.AvailableSeats - count
		err = m.flights.UpdateSeats(ctx, flightID, flight.AvailableSeats, updated)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		flight.AvailableSeats = updated
		return flight, nil
	}
	return nil, fmt.Errorf("reserve seats on flight %s: too many conflicts: %w", flightID, domain.ErrStoreUnavailable)
}

// Release returns count seats to the pool. The counter is clamped at the
// flight's total so a duplicate release cannot overflow capacity.
func (m *Manager) Release(ctx context.Context, flightID string, count int) (*domain.Flight, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: seat count must be positive", domain.ErrInvalidRequest)
	}
	for attempt := 0; attempt < m.attempts; attempt++ {
		flight, err := m.flights.GetByID(ctx, flightID)
		if err != nil {
			return nil, err
		}
		updated := flight.AvailableSeats + count
		if updated > flight.TotalSeats {
			updated = flight.TotalSeats
		}
		err = m.flights.UpdateSeats(ctx, flightID, flight.AvailableSeats, updated)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		flight.AvailableSeats = updated
		return flight, nil
	}
	return nil, fmt.Errorf("release seats on flight %s: too many conflicts: %w", flightID, domain.ErrStoreUnavailable)
}
