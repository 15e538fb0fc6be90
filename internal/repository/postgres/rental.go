package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, renter_id, vehicle_id, pickup_station_id, return_station_id,
	rental_mode, scheduled_pickup_date, scheduled_return_date, scheduled_pickup_time, scheduled_return_time,
	reservation_time, checkout_time, checkin_time, status,
	order_code, payment_status, payment_time, payment_link,
	price_per_hour, price_per_day, deposit_amount, total_amount, distance_km,
	checkout_photos, checkout_note, checkout_battery_pct,
	checkin_photos, checkin_note, checkin_battery_pct,
	full_name, phone, email, note,
	signature_data, signature_signed_at, signature_ip, signature_ua,
	created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var (
		checkoutPhotos, checkinPhotos              []string
		checkoutNote, checkinNote                  sql.NullString
		checkoutBattery, checkinBattery            sql.NullInt32
		fullName, phone, email, note, paymentLink  sql.NullString
		sigData, sigIP, sigUA                      sql.NullString
		sigSignedAt                                sql.NullTime
	)
	err := row.Scan(&rt.ID, &rt.RenterID, &rt.VehicleID, &rt.PickupStationID, &rt.ReturnStationID,
		&rt.RentalMode, &rt.ScheduledPickupDate, &rt.ScheduledReturnDate, &rt.ScheduledPickupTime, &rt.ScheduledReturnTime,
		&rt.ReservationTime, &rt.CheckoutTime, &rt.CheckinTime, &rt.Status,
		&rt.OrderCode, &rt.PaymentStatus, &rt.PaymentTime, &paymentLink,
		&rt.PricePerHour, &rt.PricePerDay, &rt.DepositAmount, &rt.TotalAmount, &rt.DistanceKm,
		pq.Array(&checkoutPhotos), &checkoutNote, &checkoutBattery,
		pq.Array(&checkinPhotos), &checkinNote, &checkinBattery,
		&fullName, &phone, &email, &note,
		&sigData, &sigSignedAt, &sigIP, &sigUA,
		&rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	rt.PaymentLink = paymentLink.String
	rt.FullName = fullName.String
	rt.Phone = phone.String
	rt.Email = email.String
	rt.Note = note.String
	if len(checkoutPhotos) > 0 || checkoutNote.Valid || checkoutBattery.Valid {
		rt.ConditionCheckout = &domain.ConditionSnapshot{
			Photos: checkoutPhotos, Note: checkoutNote.String, BatteryPct: checkoutBattery.Int32,
		}
	}
	if len(checkinPhotos) > 0 || checkinNote.Valid || checkinBattery.Valid {
		rt.ConditionCheckin = &domain.ConditionSnapshot{
			Photos: checkinPhotos, Note: checkinNote.String, BatteryPct: checkinBattery.Int32,
		}
	}
	if sigData.Valid {
		rt.ContractSignature = &domain.ContractSignature{
			Data: sigData.String, IPAddress: sigIP.String, UserAgent: sigUA.String,
		}
		if sigSignedAt.Valid {
			t := sigSignedAt.Time
			rt.ContractSignature.SignedAt = &t
		}
	}
	return rt, nil
}

func (r *rentalRepository) CreateHold(ctx context.Context, rt *domain.Rental, allowed []domain.VehicleStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the vehicle row for the duration of the check-then-insert so two
	// concurrent reservations cannot both pass the precondition.
	var status domain.VehicleStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`, rt.VehicleID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError("vehicle")
	}
	if err != nil {
		return err
	}

	ok := false
	for _, s := range allowed {
		if s == status {
			ok = true
			break
		}
	}
	if !ok {
		if status == domain.VehicleStatusOutOfStock {
			return domain.ConflictError("vehicle is out of stock")
		}
		return domain.ConflictError("vehicle cannot be reserved (status: %s)", status)
	}

	var active bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rentals WHERE vehicle_id = $1 AND status IN ($2, $3))`,
		rt.VehicleID, domain.RentalStatusReserved, domain.RentalStatusOngoing).Scan(&active)
	if err != nil {
		return err
	}
	if active {
		return domain.ConflictError("vehicle already has an active rental")
	}

	err = r.insert(ctx, tx, rt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicateOrderCode
		}
		return err
	}
	return tx.Commit()
}

func (r *rentalRepository) insert(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `INSERT INTO rentals (renter_id, vehicle_id, pickup_station_id, return_station_id,
	            rental_mode, scheduled_pickup_date, scheduled_return_date, scheduled_pickup_time, scheduled_return_time,
	            reservation_time, status, order_code, payment_status,
	            price_per_hour, price_per_day, deposit_amount, total_amount,
	            full_name, phone, email, note, created_on, updated_on)
	          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	          RETURNING id`
	return tx.QueryRowContext(ctx, query,
		rt.RenterID, rt.VehicleID, rt.PickupStationID, rt.ReturnStationID,
		rt.RentalMode, rt.ScheduledPickupDate, rt.ScheduledReturnDate, rt.ScheduledPickupTime, rt.ScheduledReturnTime,
		rt.ReservationTime, rt.Status, rt.OrderCode, rt.PaymentStatus,
		rt.PricePerHour, rt.PricePerDay, rt.DepositAmount, rt.TotalAmount,
		nullStr(rt.FullName), nullStr(rt.Phone), nullStr(rt.Email), nullStr(rt.Note),
		time.Now(), time.Now()).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("rental")
	}
	return rt, err
}

func (r *rentalRepository) GetByOrderCode(ctx context.Context, orderCode int64) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE order_code = $1`, orderCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("rental")
	}
	return rt, err
}

// rentalUpdateSet deliberately excludes order_code: the code is immutable
// once assigned.
const rentalUpdateSet = `status=$1, payment_status=$2, payment_time=$3, payment_link=$4,
	return_station_id=$5, checkout_time=$6, checkin_time=$7,
	total_amount=$8, distance_km=$9,
	checkout_photos=$10, checkout_note=$11, checkout_battery_pct=$12,
	checkin_photos=$13, checkin_note=$14, checkin_battery_pct=$15,
	signature_data=$16, signature_signed_at=$17, signature_ip=$18, signature_ua=$19,
	note=$20, updated_on=$21`

func rentalUpdateArgs(rt *domain.Rental) []any {
	var (
		checkoutPhotos, checkinPhotos   []string
		checkoutNote, checkinNote       sql.NullString
		checkoutBattery, checkinBattery sql.NullInt32
		sigData, sigIP, sigUA           sql.NullString
		sigSignedAt                     sql.NullTime
	)
	if cs := rt.ConditionCheckout; cs != nil {
		checkoutPhotos = cs.Photos
		checkoutNote = nullStr(cs.Note)
		checkoutBattery = sql.NullInt32{Int32: cs.BatteryPct, Valid: true}
	}
	if cs := rt.ConditionCheckin; cs != nil {
		checkinPhotos = cs.Photos
		checkinNote = nullStr(cs.Note)
		checkinBattery = sql.NullInt32{Int32: cs.BatteryPct, Valid: true}
	}
	if sig := rt.ContractSignature; sig != nil {
		sigData = nullStr(sig.Data)
		sigIP = nullStr(sig.IPAddress)
		sigUA = nullStr(sig.UserAgent)
		if sig.SignedAt != nil {
			sigSignedAt = sql.NullTime{Time: *sig.SignedAt, Valid: true}
		}
	}
	return []any{
		rt.Status, rt.PaymentStatus, rt.PaymentTime, nullStr(rt.PaymentLink),
		rt.ReturnStationID, rt.CheckoutTime, rt.CheckinTime,
		rt.TotalAmount, rt.DistanceKm,
		pq.Array(checkoutPhotos), checkoutNote, checkoutBattery,
		pq.Array(checkinPhotos), checkinNote, checkinBattery,
		sigData, sigSignedAt, sigIP, sigUA,
		nullStr(rt.Note), time.Now(),
	}
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	args := append(rentalUpdateArgs(rt), rt.ID)
	res, err := r.db.ExecContext(ctx, `UPDATE rentals SET `+rentalUpdateSet+` WHERE id=$22`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("rental")
	}
	return nil
}

func (r *rentalRepository) UpdateWithVehicle(ctx context.Context, rt *domain.Rental, vehicleStatus domain.VehicleStatus, vehicleStationID *int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	args := append(rentalUpdateArgs(rt), rt.ID)
	res, err := tx.ExecContext(ctx, `UPDATE rentals SET `+rentalUpdateSet+` WHERE id=$22`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("rental")
	}

	if vehicleStationID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE vehicles SET status=$1, station_id=$2, updated_on=$3 WHERE id=$4`,
			vehicleStatus, *vehicleStationID, time.Now(), rt.VehicleID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE vehicles SET status=$1, updated_on=$2 WHERE id=$3`,
			vehicleStatus, time.Now(), rt.VehicleID)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE renter_id = $1 ORDER BY created_on DESC`, renterID)
}

func (r *rentalRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals`
	countQuery := `SELECT count(*) FROM rentals`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		countQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rentals, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ExistsActiveByVehicle(ctx context.Context, vehicleID int32) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rentals WHERE vehicle_id = $1 AND status IN ($2, $3))`,
		vehicleID, domain.RentalStatusReserved, domain.RentalStatusOngoing).Scan(&active)
	return active, err
}

func (r *rentalRepository) ListPendingPayment(ctx context.Context, olderThan time.Time) ([]domain.Rental, error) {
	return r.list(ctx,
		`SELECT `+rentalColumns+` FROM rentals
		 WHERE status = $1 AND payment_status = $2 AND created_on < $3
		 ORDER BY created_on`,
		domain.RentalStatusReserved, domain.PaymentStatusPending, olderThan)
}

func (r *rentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	// Scheduled return is stored as separate date and time strings; compose
	// them in SQL for the comparison.
	return r.list(ctx,
		`SELECT `+rentalColumns+` FROM rentals
		 WHERE status = $1
		   AND (scheduled_return_date || ' ' || scheduled_return_time)::timestamp < $2
		 ORDER BY scheduled_return_date`,
		domain.RentalStatusOngoing, now)
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
