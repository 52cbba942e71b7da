// Package cache persists per-search-key offer tables with calendar-date
// freshness. A key is fresh when its rows were written today (process-local
// date); a stale or unknown key sends the caller down the provider miss path.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"offerscout/services/offer"
)

const dateLayout = "2006-01-02"

// SanitizeKey normalizes a raw keyword into a cache key: lower-cased,
// trimmed, path separators mapped to dashes, brackets to parentheses,
// truncated to 100 characters. An empty keyword maps to "default".
func SanitizeKey(keyword string) string {
	if keyword == "" {
		keyword = "default"
	}
	key := strings.ToLower(strings.TrimSpace(keyword))
	key = strings.NewReplacer("/", "-", "\\", "-", "[", "(", "]", ")").Replace(key)
	if r := []rune(key); len(r) > 100 {
		key = string(r[:100])
	}
	return key
}

// Store reads and writes the offer cache. Writes always replace a key's
// whole row set and stamp freshness in the same transaction, so readers
// never observe a half-rewritten key marked fresh.
type Store struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	return NewStoreWithClock(db, logger, time.Now)
}

// NewStoreWithClock is NewStore with an injected clock, used by tests to
// pin "today".
func NewStoreWithClock(db *gorm.DB, logger *zap.Logger, clock func() time.Time) (*Store, error) {
	if err := db.AutoMigrate(&CachedOffer{}, &Freshness{}, &FeedbackEntry{}); err != nil {
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	return &Store{db: db, clock: clock, logger: logger}, nil
}

func (s *Store) today() string { return s.clock().Format(dateLayout) }

// IsFresh reports whether the key's rows were written today. A key with no
// freshness record is never fresh.
func (s *Store) IsFresh(ctx context.Context, key string) bool {
	var rec Freshness
	err := s.db.WithContext(ctx).First(&rec, "search_key = ?", key).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logger.Warn("cache freshness lookup failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return rec.LastUpdatedDate == s.today()
}

// Read returns the key's cached offers in their stored order. A key with no
// rows yields an empty slice, not an error.
func (s *Store) Read(ctx context.Context, key string) ([]offer.Offer, error) {
	var rows []CachedOffer
	if err := s.db.WithContext(ctx).
		Where("search_key = ?", key).
		Order("row_id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cache: read %q: %w", key, err)
	}

	offers := make([]offer.Offer, 0, len(rows))
	for i := range rows {
		o, ok := rows[i].toOffer()
		if !ok {
			s.logger.Warn("skipping corrupt cache row",
				zap.String("key", key), zap.Int64("row", rows[i].RowID))
			continue
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// Write replaces the key's rows with the given offers and stamps freshness
// to today. An empty offer list still stamps: a keyword with no results is
// a valid answer worth remembering for the rest of the day.
func (s *Store) Write(ctx context.Context, key string, offers []offer.Offer) error {
	rows := make([]CachedOffer, 0, len(offers))
	for i := range offers {
		rows = append(rows, newCachedOffer(key, &offers[i]))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("search_key = ?", key).Delete(&CachedOffer{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "search_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_updated_date"}),
		}).Create(&Freshness{SearchKey: key, LastUpdatedDate: s.today()}).Error
	})
	if err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}

	s.logger.Info("cache key rewritten", zap.String("key", key), zap.Int("rows", len(rows)))
	return nil
}

// RecentKeys lists keys whose freshness date falls within the last
// windowDays calendar days, today included. The daily re-warm uses it to
// decide which keys are still worth refreshing.
func (s *Store) RecentKeys(ctx context.Context, windowDays int) ([]string, error) {
	cutoff := s.clock().AddDate(0, 0, -windowDays).Format(dateLayout)

	var keys []string
	if err := s.db.WithContext(ctx).
		Model(&Freshness{}).
		Where("last_updated_date >= ?", cutoff).
		Order("search_key asc").
		Pluck("search_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("cache: recent keys: %w", err)
	}
	return keys, nil
}

// AppendFeedback stores one user feedback record. Feedback is append-only
// and never rewritten.
func (s *Store) AppendFeedback(ctx context.Context, name, message string) error {
	entry := FeedbackEntry{Timestamp: s.clock(), Name: name, Message: message}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("cache: append feedback: %w", err)
	}
	return nil
}
