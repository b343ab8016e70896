// Package remote mirrors sign-in events to a shared Postgres instance.
// The local store stays authoritative; the remote side only tracks which
// accounts exist and when they were last seen, so a later device can
// seed its profile from the account row.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/identity"
	"github.com/jet23058/caloriesnap/internal/logbook"
)

type DB struct {
	pool *pgxpool.Pool
}

// New connects to Postgres with bounded pool settings. An empty DSN is
// a configuration error; callers should skip remote sync entirely when
// no DSN is configured.
func New(ctx context.Context, dsn string, maxOpen, maxIdle int) (*DB, error) {
	if dsn == "" {
		return nil, errors.NewInvalidRequest("remote DSN is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	if maxOpen > 0 {
		poolConfig.MaxConns = int32(maxOpen)
	}
	if maxIdle > 0 {
		poolConfig.MinConns = int32(maxIdle)
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(connCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the accounts table when it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS accounts (
            id            TEXT PRIMARY KEY,
            display_name  TEXT NOT NULL DEFAULT '',
            email         TEXT NOT NULL DEFAULT '',
            photo_url     TEXT NOT NULL DEFAULT '',
            age           INTEGER,
            gender        TEXT,
            height_cm     DOUBLE PRECISION,
            weight_kg     DOUBLE PRECISION,
            activity      TEXT,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            last_seen_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `

	if _, err := db.pool.Exec(ctx, query); err != nil {
		return errors.NewExternalService("postgres", err)
	}
	return nil
}

// RecordSignIn upserts the account row and touches last_seen_at. The
// profile columns are written only on first sight; later sign-ins keep
// whatever UpdateAccountProfile stored.
func (db *DB) RecordSignIn(ctx context.Context, user identity.User, profile logbook.UserProfile) error {
	if !user.SignedIn() {
		return errors.NewInvalidRequest("user has no account id")
	}

	query := `
        INSERT INTO accounts (id, display_name, email, photo_url, age, gender, height_cm, weight_kg, activity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE
        SET display_name = $2, email = $3, photo_url = $4, last_seen_at = NOW()
    `

	_, err := db.pool.Exec(ctx, query,
		user.ID, user.DisplayName, user.Email, user.PhotoURL,
		profile.Age, genderText(profile), profile.Height, profile.Weight, activityText(profile),
	)
	if err != nil {
		return errors.NewExternalService("postgres", err)
	}
	return nil
}

// UpdateAccountProfile pushes the current local profile to the account
// row so another device can seed from it.
func (db *DB) UpdateAccountProfile(ctx context.Context, userID string, profile logbook.UserProfile) error {
	if userID == "" {
		return errors.NewInvalidRequest("user has no account id")
	}

	query := `
        UPDATE accounts
        SET age = $2, gender = $3, height_cm = $4, weight_kg = $5, activity = $6, last_seen_at = NOW()
        WHERE id = $1
    `

	_, err := db.pool.Exec(ctx, query,
		userID, profile.Age, genderText(profile), profile.Height, profile.Weight, activityText(profile),
	)
	if err != nil {
		return errors.NewExternalService("postgres", err)
	}
	return nil
}

// FetchAccountProfile reads the profile columns for an account. A
// missing row returns NOT_FOUND.
func (db *DB) FetchAccountProfile(ctx context.Context, userID string) (*logbook.UserProfile, error) {
	query := `
        SELECT age, gender, height_cm, weight_kg, activity
        FROM accounts
        WHERE id = $1
    `

	var profile logbook.UserProfile
	var gender, activity *string
	err := db.pool.QueryRow(ctx, query, userID).Scan(
		&profile.Age, &gender, &profile.Height, &profile.Weight, &activity,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.NewNotFound(userID)
		}
		return nil, errors.NewExternalService("postgres", err)
	}

	if gender != nil {
		profile.Gender = logbook.ParseGender(*gender)
	}
	if activity != nil {
		profile.ActivityLevel = logbook.ParseActivityLevel(*activity)
	}
	return &profile, nil
}

func genderText(p logbook.UserProfile) *string {
	if p.Gender == nil {
		return nil
	}
	s := string(*p.Gender)
	return &s
}

func activityText(p logbook.UserProfile) *string {
	if p.ActivityLevel == nil {
		return nil
	}
	s := string(*p.ActivityLevel)
	return &s
}
