package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (duplicate email, second active survey, repeated IP).
var ErrDuplicate = errors.New("duplicate record")

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

// UserRepo handles SQL operations for users
type UserRepo interface {
	Create(ctx context.Context, user *model.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	SetLinkCode(ctx context.Context, id int64, code string) error
	ConsumeLinkCode(ctx context.Context, code, telegramID string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

const userColumns = `id, email, hashed_password, name,
	COALESCE(telegram_id, ''), COALESCE(link_code, ''), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Name,
		&u.TelegramID, &u.LinkCode, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, hashed_password, name, telegram_id, created_at, updated_at)
		 VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)`,
		user.Email, user.HashedPassword, user.Name, user.TelegramID, now, now)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	user.ID = id
	return id, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *userRepo) GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID)
	return scanUser(row)
}

func (r *userRepo) UpdateName(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	return err
}

func (r *userRepo) SetLinkCode(ctx context.Context, id int64, code string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET link_code = ?, updated_at = ? WHERE id = ?`,
		code, time.Now().UTC(), id)
	return err
}

// ConsumeLinkCode atomically claims a single-use linking code: the code
// is cleared and the telegram id bound in one statement, so a second
// attempt with the same code matches no row.
func (r *userRepo) ConsumeLinkCode(ctx context.Context, code, telegramID string) (*model.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_id = ?, link_code = NULL, updated_at = ?
		 WHERE link_code = ?`,
		telegramID, time.Now().UTC(), code)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.GetByTelegramID(ctx, telegramID)
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
