package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// JSONStorage is the file-backed activity log, used when no database is
// configured.
type JSONStorage struct {
	FilePath string
	mu       sync.RWMutex
	Data     StorageData
}

type StorageData struct {
	DailyCommentCount map[string]int       `json:"daily_comment_count"`
	LastCommentDate   map[string]string    `json:"last_comment_date"`
	Replies           []domain.ReplyRecord `json:"replies"`
}

func NewJSONStorage(filePath string) (*JSONStorage, error) {
	s := &JSONStorage{
		FilePath: filePath,
		Data: StorageData{
			DailyCommentCount: make(map[string]int),
			LastCommentDate:   make(map[string]string),
		},
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := s.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*JSONStorage)(nil)

func (s *JSONStorage) loadFromFile() error {
	file, err := os.ReadFile(s.FilePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(file, &s.Data)
}

func (s *JSONStorage) saveToFile() error {
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.FilePath, data, 0644)
}

func (s *JSONStorage) SaveReply(ctx context.Context, rec domain.ReplyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = int64(len(s.Data.Replies) + 1)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.Data.Replies = append(s.Data.Replies, rec)
	return s.saveToFile()
}

func (s *JSONStorage) RecentReplies(ctx context.Context, limit int) ([]domain.ReplyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.Data.Replies)
	if limit > n {
		limit = n
	}
	res := make([]domain.ReplyRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		res = append(res, s.Data.Replies[i])
	}
	return res, nil
}

func (s *JSONStorage) GetCommentStats(account string) (int, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Data.DailyCommentCount[account], s.Data.LastCommentDate[account], nil
}

func (s *JSONStorage) IncrementCommentCount(account string, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Data.LastCommentDate[account] != date {
		s.Data.DailyCommentCount[account] = 1
		s.Data.LastCommentDate[account] = date
	} else {
		s.Data.DailyCommentCount[account]++
	}
	return s.saveToFile()
}
