package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type MessageService struct {
	store repository.Store
}

func NewMessageService(store repository.Store) *MessageService {
	return &MessageService{store: store}
}

// Post creates a message owned by userID.
func (s *MessageService) Post(ctx context.Context, userID uint, text string) (msg *models.Message, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "MessageService.Post",
		attribute.Int("user_id", int(userID)))
	defer func() { observability.EndSpan(span, err) }()

	msg, err = models.NewMessage(userID, text)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		owner, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Messages().Create(ctx, msg); err != nil {
			return err
		}
		msg.User = owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.MessagesPosted.Inc()
	return msg, nil
}

// Get returns messageID. A non-zero viewerID fills in LikedByMe.
func (s *MessageService) Get(ctx context.Context, messageID, viewerID uint) (*models.Message, error) {
	msg, err := s.store.Messages().GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		liked, err := s.store.Likes().Exists(ctx, viewerID, messageID)
		if err != nil {
			return nil, err
		}
		msg.LikedByMe = &liked
	}
	return msg, nil
}

// Likers lists the users who liked messageID.
func (s *MessageService) Likers(ctx context.Context, messageID uint) ([]models.User, error) {
	if _, err := s.store.Messages().GetByID(ctx, messageID); err != nil {
		return nil, err
	}
	return s.store.Likes().LikersOf(ctx, messageID)
}

// Delete removes messageID and its likes. Only the owner may delete.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		msg, err := tx.Messages().GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if !msg.OwnedBy(actorID) {
			return models.NewForbiddenError("You can only delete your own messages")
		}
		if err := tx.Likes().DeleteForMessage(ctx, messageID); err != nil {
			return err
		}
		return tx.Messages().Delete(ctx, messageID)
	})
}

func (s *MessageService) UserMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Messages().ByUser(ctx, userID, limit, offset)
}

// Timeline is the home feed: userID's own messages and those of everyone
// userID follows, newest first, at most repository.TimelineLimit.
func (s *MessageService) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > repository.TimelineLimit {
		limit = repository.TimelineLimit
	}
	return s.store.Messages().Timeline(ctx, userID, limit)
}

// Like records that userID likes messageID. Liking twice is a no-op.
func (s *MessageService) Like(ctx context.Context, userID, messageID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := s.checkLikeable(ctx, tx, userID, messageID); err != nil {
			return err
		}
		added, err := tx.Likes().Add(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if added {
			observability.RelationChanges.WithLabelValues("like", "add").Inc()
		}
		return nil
	})
}

// Unlike removes the like if present.
func (s *MessageService) Unlike(ctx context.Context, userID, messageID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Messages().GetByID(ctx, messageID); err != nil {
			return err
		}
		removed, err := tx.Likes().Remove(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if removed {
			observability.RelationChanges.WithLabelValues("like", "remove").Inc()
		}
		return nil
	})
}

// ToggleLike likes or unlikes messageID and reports whether it is now liked.
func (s *MessageService) ToggleLike(ctx context.Context, userID, messageID uint) (bool, error) {
	var liked bool
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := s.checkLikeable(ctx, tx, userID, messageID); err != nil {
			return err
		}
		removed, err := tx.Likes().Remove(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if removed {
			observability.RelationChanges.WithLabelValues("like", "remove").Inc()
			return nil
		}
		if _, err := tx.Likes().Add(ctx, userID, messageID); err != nil {
			return err
		}
		observability.RelationChanges.WithLabelValues("like", "add").Inc()
		liked = true
		return nil
	})
	return liked, err
}

func (s *MessageService) checkLikeable(ctx context.Context, tx repository.Store, userID, messageID uint) error {
	if _, err := tx.Users().GetByID(ctx, userID); err != nil {
		return err
	}
	msg, err := tx.Messages().GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.OwnedBy(userID) {
		return models.NewForbiddenError("You cannot like your own message")
	}
	return nil
}
