package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// PostgresStorage is the database-backed activity log, selected when
// DATABASE_URL is set.
type PostgresStorage struct {
	Pool *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, connStr string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	s := &PostgresStorage{Pool: pool}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*PostgresStorage)(nil)

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS comment_stats (account TEXT PRIMARY KEY, count INT, last_date TEXT)`,
		`CREATE TABLE IF NOT EXISTS replies (
			id SERIAL PRIMARY KEY,
			account TEXT,
			post_id TEXT,
			comment_id TEXT,
			content TEXT,
			mode TEXT,
			outcome TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := s.Pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("failed to init schema: %v", err)
		}
	}
	return nil
}

func (s *PostgresStorage) SaveReply(ctx context.Context, rec domain.ReplyRecord) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO replies (account, post_id, comment_id, content, mode, outcome) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.Account, rec.PostID, rec.CommentID, rec.Text, rec.Mode, rec.Outcome)
	return err
}

func (s *PostgresStorage) RecentReplies(ctx context.Context, limit int) ([]domain.ReplyRecord, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT id, account, post_id, comment_id, content, mode, outcome, created_at FROM replies ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.ReplyRecord
	for rows.Next() {
		var r domain.ReplyRecord
		if err := rows.Scan(&r.ID, &r.Account, &r.PostID, &r.CommentID, &r.Text, &r.Mode, &r.Outcome, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *PostgresStorage) GetCommentStats(account string) (int, string, error) {
	var count int
	var lastDate string
	err := s.Pool.QueryRow(context.Background(),
		"SELECT count, last_date FROM comment_stats WHERE account = $1", account).Scan(&count, &lastDate)
	if err != nil {
		return 0, "", nil
	}
	return count, lastDate, nil
}

func (s *PostgresStorage) IncrementCommentCount(account string, date string) error {
	_, err := s.Pool.Exec(context.Background(),
		`INSERT INTO comment_stats (account, count, last_date) VALUES ($1, 1, $2)
		 ON CONFLICT (account) DO UPDATE SET
		 count = CASE WHEN comment_stats.last_date = $2 THEN comment_stats.count + 1 ELSE 1 END,
		 last_date = $2`,
		account, date)
	return err
}
