package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	GetByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

type PGBookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `pnr, flight_id, user_name, user_email, seats, passengers, seat_numbers, meal_type, status, booked_at, cancelled_at, journey_date, journey_departure`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO bookings (pnr, flight_id, user_name, user_email, seats, passengers, seat_numbers, meal_type, status, booked_at, journey_date, journey_departure)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		booking.PNR, booking.FlightID, booking.UserName, booking.UserEmail, booking.Seats,
		passengers, booking.SeatNumbers, booking.MealType, booking.Status,
		booking.BookedAt, booking.JourneyDate, booking.JourneyDeparture)
	return err
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, pnr)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) GetByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE lower(user_email)=lower($1) ORDER BY booked_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	res, err := r.db.Exec(ctx, `UPDATE bookings SET meal_type=$2, status=$3, cancelled_at=$4 WHERE pnr=$1`,
		booking.PNR, booking.MealType, booking.Status, booking.CancelledAt)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var passengers []byte
	if err := row.Scan(&b.PNR, &b.FlightID, &b.UserName, &b.UserEmail, &b.Seats,
		&passengers, &b.SeatNumbers, &b.MealType, &b.Status,
		&b.BookedAt, &b.CancelledAt, &b.JourneyDate, &b.JourneyDeparture); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
