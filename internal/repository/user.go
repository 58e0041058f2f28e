package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lifedash/questlog/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Ensure(id int64) (*model.User, error)
	ByID(id int64) (*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Ensure returns the user with id, creating an empty account on first
// sight.
func (r *userRepository) Ensure(id int64) (*model.User, error) {
	query := `INSERT INTO users (id, name, timezone, created_at) VALUES ($1, '', '', $2)
	          ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(query, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return r.ByID(id)
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
