package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `"id","name","email","password_hash","is_account_verified","verify_otp","verify_otp_expires_at","reset_otp","reset_otp_expires_at","created_at","updated_at"`

// UserRepository is the Postgres credential store.
type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	id := uuid.NewString()

	row := r.DB.QueryRow(ctx, `
		INSERT INTO users ("id","name","email","password_hash")
		VALUES ($1,$2,$3,$4)
		RETURNING `+userColumns+`
	`, id, name, email, passwordHash)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE "email"=$1
	`, email)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE "id"=$1
	`, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// SetVerifyOTP overwrites any pending verification code. The latest
// generation always wins.
func (r *UserRepository) SetVerifyOTP(ctx context.Context, userID, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET "verify_otp"=$1, "verify_otp_expires_at"=$2, "updated_at"=NOW()
		WHERE "id"=$3
	`, code, expiresAt, userID)
	return err
}

func (r *UserRepository) SetResetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET "reset_otp"=$1, "reset_otp_expires_at"=$2, "updated_at"=NOW()
		WHERE "id"=$3
	`, code, expiresAt, userID)
	return err
}

// ConsumeVerifyOTP marks the account verified and clears the pending code
// in a single conditional update, so two concurrent submissions of the
// same code cannot both succeed. It reports whether the code was accepted.
func (r *UserRepository) ConsumeVerifyOTP(ctx context.Context, userID, code string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users
		SET "is_account_verified"=TRUE,
		    "verify_otp"='',
		    "verify_otp_expires_at"=NULL,
		    "updated_at"=NOW()
		WHERE "id"=$1 AND "verify_otp"<>'' AND "verify_otp"=$2 AND "verify_otp_expires_at" > NOW()
	`, userID, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ConsumeResetOTP clears the pending reset code and installs the new
// password hash in the same conditional update.
func (r *UserRepository) ConsumeResetOTP(ctx context.Context, userID, code, passwordHash string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users
		SET "password_hash"=$3,
		    "reset_otp"='',
		    "reset_otp_expires_at"=NULL,
		    "updated_at"=NOW()
		WHERE "id"=$1 AND "reset_otp"<>'' AND "reset_otp"=$2 AND "reset_otp_expires_at" > NOW()
	`, userID, code, passwordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user          User
		verifyExpires *time.Time
		resetExpires  *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAccountVerified,
		&user.VerifyOTP,
		&verifyExpires,
		&user.ResetOTP,
		&resetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.VerifyOTPExpiresAt = verifyExpires
	user.ResetOTPExpiresAt = resetExpires
	return &user, nil
}
