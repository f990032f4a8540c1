package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/concert-capstone/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   VARCHAR(150) UNIQUE NOT NULL,
		password   VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS concerts (
		id           BIGSERIAL PRIMARY KEY,
		concert_name VARCHAR(255) NOT NULL,
		duration     INTEGER      NOT NULL,
		city         VARCHAR(255) NOT NULL,
		date         DATE         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS concert_attending (
		id         BIGSERIAL PRIMARY KEY,
		concert_id BIGINT       NOT NULL REFERENCES concerts(id) ON DELETE CASCADE,
		user_id    BIGINT       NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		attending  VARCHAR(100) NOT NULL DEFAULT '-',
		UNIQUE (concert_id, user_id)
	)`,
}

// PostgresStore handles users, concerts and attendance in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 RETURNING id, username, password, created_at`,
		username, hashedPassword,
	).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CountConcerts(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM concerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count concerts: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CreateConcert(ctx context.Context, c *models.Concert) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO concerts (concert_name, duration, city, date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.ConcertName, c.Duration, c.City, c.Date,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create concert: %w", err)
	}
	return nil
}

// ListConcertsForUser returns every concert with the user's answer, or "-"
// when the user never answered.
func (s *PostgresStore) ListConcertsForUser(ctx context.Context, userID int64) ([]models.ConcertStatus, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.concert_name, c.duration, c.city, c.date, COALESCE(a.attending, $2)
		 FROM concerts c
		 LEFT JOIN concert_attending a ON a.concert_id = c.id AND a.user_id = $1
		 ORDER BY c.date, c.id`,
		userID, string(models.AttendingNothing),
	)
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
	}
	defer rows.Close()

	var out []models.ConcertStatus
	for rows.Next() {
		var cs models.ConcertStatus
		var status string
		if err := rows.Scan(&cs.Concert.ID, &cs.Concert.ConcertName, &cs.Concert.Duration,
			&cs.Concert.City, &cs.Concert.Date, &status); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		cs.Status = models.Attending(status)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate concerts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetConcertForUser(ctx context.Context, concertID, userID int64) (*models.ConcertStatus, error) {
	var cs models.ConcertStatus
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT c.id, c.concert_name, c.duration, c.city, c.date, COALESCE(a.attending, $3)
		 FROM concerts c
		 LEFT JOIN concert_attending a ON a.concert_id = c.id AND a.user_id = $2
		 WHERE c.id = $1`,
		concertID, userID, string(models.AttendingNothing),
	).Scan(&cs.Concert.ID, &cs.Concert.ConcertName, &cs.Concert.Duration,
		&cs.Concert.City, &cs.Concert.Date, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get concert: %w", err)
	}
	cs.Status = models.Attending(status)
	return &cs, nil
}

// SetAttendance records the user's answer for a concert in one statement.
func (s *PostgresStore) SetAttendance(ctx context.Context, concertID, userID int64, attending models.Attending) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO concert_attending (concert_id, user_id, attending)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (concert_id, user_id) DO UPDATE SET attending = EXCLUDED.attending`,
		concertID, userID, string(attending),
	)
	if pgCode(err) == pgForeignKeyViolation {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set attendance: %w", err)
	}
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
