package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	GetByRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	UpdateSeats(ctx context.Context, id string, expected, updated int) error
}

type PGFlightRepository struct {
	db DBConn
}

func NewFlightRepository(db DBConn) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline_name, airline_logo_url, from_place, to_place, departure_date, departure_time, arrival_time, round_trip_available, one_way_price_cents, round_trip_price_cents, total_seats, available_seats, created_at, updated_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (id, airline_name, airline_logo_url, from_place, to_place, departure_date, departure_time, arrival_time, round_trip_available, one_way_price_cents, round_trip_price_cents, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		flight.ID, flight.AirlineName, flight.AirlineLogoURL, flight.FromPlace, flight.ToPlace,
		flight.DepartureDate, flight.DepartureTime, flight.ArrivalTime, flight.RoundTripAvailable,
		flight.OneWayPriceCents, flight.RoundTripPriceCents, flight.TotalSeats, flight.AvailableSeats).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	return scanFlight(row)
}

func (r *PGFlightRepository) GetByRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE lower(from_place)=lower($1) AND lower(to_place)=lower($2) AND departure_date=$3 ORDER BY departure_time`,
		fromPlace, toPlace, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

// UpdateSeats writes the seat counter only if the stored value still equals
// expected. A lost race returns domain.ErrConflict so the inventory manager
// can re-read and retry.
func (r *PGFlightRepository) UpdateSeats(ctx context.Context, id string, expected, updated int) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats=$3, updated_at=now() WHERE id=$1 AND available_seats=$2`,
		id, expected, updated)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.AirlineName, &f.AirlineLogoURL, &f.FromPlace, &f.ToPlace,
		&f.DepartureDate, &f.DepartureTime, &f.ArrivalTime, &f.RoundTripAvailable,
		&f.OneWayPriceCents, &f.RoundTripPriceCents, &f.TotalSeats, &f.AvailableSeats,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.AirlineName, &f.AirlineLogoURL, &f.FromPlace, &f.ToPlace,
			&f.DepartureDate, &f.DepartureTime, &f.ArrivalTime, &f.RoundTripAvailable,
			&f.OneWayPriceCents, &f.RoundTripPriceCents, &f.TotalSeats, &f.AvailableSeats,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
