package repository

import (
	"context"

	"warbler/internal/cache"
	"warbler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository manages the user -> message like edge set.
type LikeRepository interface {
	// Add inserts the like and reports whether it was new.
	Add(ctx context.Context, userID, messageID uint) (bool, error)
	// Remove deletes the like and reports whether it existed.
	Remove(ctx context.Context, userID, messageID uint) (bool, error)
	Exists(ctx context.Context, userID, messageID uint) (bool, error)
	LikersOf(ctx context.Context, messageID uint) ([]models.User, error)
	LikedBy(ctx context.Context, userID uint) ([]models.Message, error)
	DeleteForMessage(ctx context.Context, messageID uint) error
	DeleteForUser(ctx context.Context, userID uint) error
}

type likeRepository struct {
	db    *gorm.DB
	cache *txCache
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Add(ctx context.Context, userID, messageID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.Like{UserID: userID, MessageID: messageID})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	r.cache.invalidate(ctx, cache.MessageKey(messageID))
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, userID, messageID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	r.cache.invalidate(ctx, cache.MessageKey(messageID))
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// LikersOf returns the users who liked messageID.
func (r *likeRepository) LikersOf(ctx context.Context, messageID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.message_id = ?", messageID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// LikedBy returns the messages userID liked, most recently liked first.
func (r *likeRepository) LikedBy(ctx context.Context, userID uint) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Select(messageColumns).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Preload("User").
		Order("likes.created_at DESC, messages.id DESC").
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

func (r *likeRepository) DeleteForMessage(ctx context.Context, messageID uint) error {
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.invalidate(ctx, cache.MessageKey(messageID))
	return nil
}

// DeleteForUser removes likes made by userID and likes on userID's messages.
// Every message whose like count changes is evicted from the cache.
func (r *likeRepository) DeleteForUser(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&models.Message{}).Select("id").Where("user_id = ?", userID)

	var messageIDs []uint
	if err := db.Model(&models.Like{}).
		Where("user_id = ? OR message_id IN (?)", userID, owned).
		Distinct().
		Pluck("message_id", &messageIDs).Error; err != nil {
		return models.NewInternalError(err)
	}
	if len(messageIDs) == 0 {
		return nil
	}

	if err := db.Where("user_id = ? OR message_id IN (?)", userID, owned).Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	keys := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		keys = append(keys, cache.MessageKey(id))
	}
	r.cache.invalidate(ctx, keys...)
	return nil
}
