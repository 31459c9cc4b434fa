package db

import (
	"context"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(db *gorm.DB) *WatchRepository {
	return &WatchRepository{db: db}
}

func (r *WatchRepository) ListActive(ctx context.Context) ([]domain.Watch, error) {
	var models []watchModel
	if err := r.db.WithContext(ctx).Order("chat_id, address").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapWatchesToDomain(models), nil
}

func (r *WatchRepository) Upsert(ctx context.Context, chatID int64, address string, seedTS int64) (*domain.Watch, error) {
	model := watchModel{
		ChatID:     chatID,
		Address:    address,
		LastSeenTS: seedTS,
		Threshold:  decimal.Zero.String(),
	}
	// DoNothing keeps an existing row intact, so re-watching never resets
	// the threshold, the paused flag, or the watermark.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, err
	}

	var current watchModel
	if err := r.db.WithContext(ctx).
		Where("chat_id = ? AND address = ?", chatID, address).
		First(&current).Error; err != nil {
		return nil, err
	}
	watch := mapWatchToDomain(current)
	return &watch, nil
}

func (r *WatchRepository) Remove(ctx context.Context, chatID int64, address string) error {
	result := r.db.WithContext(ctx).
		Where("chat_id = ? AND address = ?", chatID, address).
		Delete(&watchModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchRepository) ListByChat(ctx context.Context, chatID int64) ([]domain.Watch, error) {
	var models []watchModel
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("address").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapWatchesToDomain(models), nil
}

func (r *WatchRepository) SetThreshold(ctx context.Context, chatID int64, address string, threshold decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&watchModel{}).
		Where("chat_id = ? AND address = ?", chatID, address).
		Update("threshold", threshold.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchRepository) SetPaused(ctx context.Context, chatID int64, address string, paused bool) error {
	result := r.db.WithContext(ctx).Model(&watchModel{}).
		Where("chat_id = ? AND address = ?", chatID, address).
		Update("paused", paused)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchRepository) AdvanceWatermark(ctx context.Context, chatID int64, address string, newTS int64) error {
	// GREATEST keeps the watermark monotonic even if a caller hands in a
	// stale value. A row removed mid-cycle is a no-op, not an error.
	return r.db.WithContext(ctx).Model(&watchModel{}).
		Where("chat_id = ? AND address = ?", chatID, address).
		Update("last_seen_ts", gorm.Expr("GREATEST(last_seen_ts, ?)", newTS)).Error
}

func (r *WatchRepository) ClearAll(ctx context.Context, chatID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&watchModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func mapWatchesToDomain(models []watchModel) []domain.Watch {
	watches := make([]domain.Watch, 0, len(models))
	for _, model := range models {
		watches = append(watches, mapWatchToDomain(model))
	}
	return watches
}

func mapWatchToDomain(model watchModel) domain.Watch {
	threshold, err := decimal.NewFromString(model.Threshold)
	if err != nil {
		threshold = decimal.Zero
	}
	return domain.Watch{
		ChatID:     model.ChatID,
		Address:    model.Address,
		LastSeenTS: model.LastSeenTS,
		Threshold:  threshold,
		Paused:     model.Paused,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
