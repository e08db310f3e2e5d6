package repository

import (
	"context"
	"errors"

	"warbler/internal/cache"
	"warbler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimelineLimit caps how many messages one feed query returns.
const TimelineLimit = 100

const messageColumns = "messages.*, (SELECT COUNT(*) FROM likes WHERE likes.message_id = messages.id) AS likes_count"

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	Delete(ctx context.Context, id uint) error
	DeleteForUser(ctx context.Context, userID uint) error
}

type messageRepository struct {
	db    *gorm.DB
	cache *txCache
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.NewNotFoundError("User", msg.UserID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID caches the message row alone; the author is attached from the
// user cache so profile edits show up without touching message keys.
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	err := r.cache.aside(ctx, cache.MessageKey(id), &msg, cache.MessageTTL, func() error {
		if err := r.db.WithContext(ctx).
			Select(messageColumns).
			First(&msg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Message", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	author, err := (&userRepository{db: r.db, cache: r.cache}).GetByID(ctx, msg.UserID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, err
	}
	msg.User = author
	return &msg, nil
}

func (r *messageRepository) ByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Select(messageColumns).
		Where("messages.user_id = ?", userID).
		Preload("User").
		Order("messages.created_at DESC, messages.id DESC").
		Limit(clampLimit(limit, TimelineLimit, TimelineLimit)).
		Offset(offset).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// Timeline returns messages written by userID or by anyone userID follows, newest first.
func (r *messageRepository) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	db := r.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)

	var msgs []models.Message
	if err := db.
		Select(messageColumns).
		Where("messages.user_id = ? OR messages.user_id IN (?)", userID, followed).
		Preload("User").
		Order("messages.created_at DESC, messages.id DESC").
		Limit(clampLimit(limit, TimelineLimit, TimelineLimit)).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	r.cache.invalidate(ctx, cache.MessageKey(id))
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Message", id)
	}
	return nil
}

func (r *messageRepository) DeleteForUser(ctx context.Context, userID uint) error {
	var ids []uint
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Message{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return models.NewInternalError(err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.Message{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.MessageKey(id))
	}
	r.cache.invalidate(ctx, keys...)
	return nil
}
