package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, dob, address,
	national_id, license_number, national_id_image, driver_license_image,
	is_verified, verify_note, risky, role, station_id, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var dob, address, nationalID, licenseNumber, idImage, dlImage, verifyNote sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&dob, &address, &nationalID, &licenseNumber, &idImage, &dlImage,
		&u.IsVerified, &verifyNote, &u.Risky, &u.Role, &u.StationID,
		&u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	u.DOB = dob.String
	u.Address = address.String
	u.NationalID = nationalID.String
	u.LicenseNumber = licenseNumber.String
	u.NationalIDImage = idImage.String
	u.DriverLicenseImage = dlImage.String
	u.VerifyNote = verifyNote.String
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, full_name, phone, dob, address,
	            national_id, license_number, national_id_image, driver_license_image,
	            is_verified, verify_note, risky, role, station_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.FullName, u.Phone, nullStr(u.DOB), nullStr(u.Address),
		nullStr(u.NationalID), nullStr(u.LicenseNumber), nullStr(u.NationalIDImage), nullStr(u.DriverLicenseImage),
		u.IsVerified, u.VerifyNote, u.Risky, u.Role, u.StationID, time.Now(), time.Now()).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("user")
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("user")
	}
	return u, err
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET full_name=$1, phone=$2, dob=$3, address=$4,
	            national_id=$5, license_number=$6, national_id_image=$7, driver_license_image=$8,
	            is_verified=$9, verify_note=$10, risky=$11, station_id=$12, updated_on=$13
	          WHERE id=$14`
	_, err := r.db.ExecContext(ctx, query,
		u.FullName, u.Phone, nullStr(u.DOB), nullStr(u.Address),
		nullStr(u.NationalID), nullStr(u.LicenseNumber), nullStr(u.NationalIDImage), nullStr(u.DriverLicenseImage),
		u.IsVerified, u.VerifyNote, u.Risky, u.StationID, time.Now(), u.ID)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int32, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = $2`, id, role)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("user")
	}
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_on DESC`, role)
}

func (r *userRepository) ListPendingVerification(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 AND is_verified = false ORDER BY created_on`, domain.RoleRenter)
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
