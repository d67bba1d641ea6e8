package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/mattn/go-sqlite3"
)

func (s *Store) CreateUser(email, firstName, lastName string) (*User, error) {
	u := &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().Unix(),
	}

	err := s.db.QueryRow(`
		INSERT INTO users (email, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id;
	`, u.Email, u.FirstName, u.LastName, u.CreatedAt).Scan(&u.ID)

	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code == sqlite.ErrConstraint || sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique {
				return nil, ErrUserExists
			}
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByID(id int64) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(`
		SELECT id, email, first_name, last_name, created_at
		FROM users
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(`
		SELECT id, email, first_name, last_name, created_at
		FROM users
		WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user '%s': %w", email, err)
	}

	return u, nil
}
