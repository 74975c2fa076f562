package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ApiCache is one cached upstream response row.
type ApiCache struct {
	ID        int       `gorm:"primaryKey"`
	CacheKey  string    `gorm:"uniqueIndex;not null"`
	Data      []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormStore persists cache entries in sqlite so a restart does not throw
// away a warm cache (and with it the upstream rate budget already spent).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the sqlite cache database at dbPath.
func NewGormStore(dbPath string) (*GormStore, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	if err := db.AutoMigrate(&ApiCache{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) GetCachedData(key string) []byte {
	var entry ApiCache

	err := s.db.Where("cache_key = ?", key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	if time.Now().After(entry.ExpiresAt) {
		s.db.Delete(&entry)
		return nil
	}

	return entry.Data
}

func (s *GormStore) SetCachedData(key string, data []byte, ttlSeconds int) {
	entry := ApiCache{
		CacheKey:  key,
		Data:      data,
		ExpiresAt: time.Now().Add(time.Duration(ttlSeconds) * time.Second),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *GormStore) CacheEntries() int64 {
	var count int64
	s.db.Model(&ApiCache{}).Where("expires_at > ?", time.Now()).Count(&count)
	return count
}

// Close closes the underlying sqlite handle.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
