package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

const maxBioLen = 500

// Authenticator checks a username/password pair. It returns (nil, nil) on a mismatch.
type Authenticator func(ctx context.Context, username, password string) (*models.User, error)

type UserService struct {
	store        repository.Store
	authenticate Authenticator
}

// Profile is a user page: the user with edges loaded, the card counts and
// how the viewer relates to the user.
type Profile struct {
	User         *models.User          `json:"user"`
	Counts       repository.UserCounts `json:"counts"`
	IsFollowing  bool                  `json:"is_following"`
	IsFollowedBy bool                  `json:"is_followed_by"`
}

// UpdateProfileInput changes the listed fields. Empty strings and nil
// pointers leave a field unchanged. CurrentPassword must match.
type UpdateProfileInput struct {
	UserID          uint
	CurrentPassword string
	Username        string
	Email           string
	ImageURL        string
	HeaderImageURL  string
	Bio             *string
	Location        *string
}

func NewUserService(store repository.Store, authenticate Authenticator) *UserService {
	return &UserService{store: store, authenticate: authenticate}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

// GetProfile loads id with messages, following, followers and likes. viewerID
// may be zero for anonymous viewers.
func (s *UserService) GetProfile(ctx context.Context, id, viewerID uint) (*Profile, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Messages, err = s.store.Messages().ByUser(ctx, id, repository.TimelineLimit, 0); err != nil {
		return nil, err
	}
	if user.Following, err = s.store.Follows().Following(ctx, id); err != nil {
		return nil, err
	}
	if user.Followers, err = s.store.Follows().Followers(ctx, id); err != nil {
		return nil, err
	}
	if user.Likes, err = s.store.Likes().LikedBy(ctx, id); err != nil {
		return nil, err
	}

	counts, err := s.store.Users().Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user, Counts: *counts}
	if viewerID == 0 {
		return profile, nil
	}

	viewer := &models.User{ID: viewerID, Likes: user.Likes}
	if viewerID != id {
		if viewer.Likes, err = s.store.Likes().LikedBy(ctx, viewerID); err != nil {
			return nil, err
		}
		profile.IsFollowing = user.IsFollowedBy(viewer)
		profile.IsFollowedBy = user.IsFollowing(viewer)
	}
	markLiked(viewer, user.Messages)
	markLiked(viewer, user.Likes)
	return profile, nil
}

func markLiked(viewer *models.User, msgs []models.Message) {
	for i := range msgs {
		liked := viewer.HasLiked(&msgs[i])
		msgs[i].LikedByMe = &liked
	}
}

// ListUsers returns all users, or those whose username contains query.
func (s *UserService) ListUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.store.Users().Search(ctx, query, limit, offset)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	current, err := s.store.Users().GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// The cached copy has no password hash; re-read through the credential check.
	user, err := s.authenticate(ctx, current.Username, in.CurrentPassword)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid password")
	}

	if v := strings.TrimSpace(in.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(in.ImageURL); v != "" {
		user.ImageURL = v
	}
	if v := strings.TrimSpace(in.HeaderImageURL); v != "" {
		user.HeaderImageURL = v
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := ensureAvailable(ctx, tx.Users(), user.ID, user.Username, user.Email); err != nil {
			return err
		}
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with every message, like and follow edge that
// references it.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			return err
		}
		if err := tx.Likes().DeleteForUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Follows().DeleteForUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Messages().DeleteForUser(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
}

// Follow makes followerID follow followedID. Following twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("You cannot follow yourself")
	}
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, followerID); err != nil {
			return err
		}
		if _, err := tx.Users().GetByID(ctx, followedID); err != nil {
			return err
		}
		added, err := tx.Follows().Add(ctx, followerID, followedID)
		if err != nil {
			return err
		}
		if added {
			observability.RelationChanges.WithLabelValues("follow", "add").Inc()
		}
		return nil
	})
}

// Unfollow removes the edge if present.
func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, followedID); err != nil {
			return err
		}
		removed, err := tx.Follows().Remove(ctx, followerID, followedID)
		if err != nil {
			return err
		}
		if removed {
			observability.RelationChanges.WithLabelValues("follow", "remove").Inc()
		}
		return nil
	})
}

// IsFollowing reports whether a follows b.
func (s *UserService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Follows().Exists(ctx, a, b)
}

// IsFollowedBy reports whether a is followed by b.
func (s *UserService) IsFollowedBy(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Follows().Exists(ctx, b, a)
}

func (s *UserService) Followers(ctx context.Context, id uint) ([]models.User, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Follows().Followers(ctx, id)
}

func (s *UserService) Following(ctx context.Context, id uint) ([]models.User, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Follows().Following(ctx, id)
}

func (s *UserService) LikedMessages(ctx context.Context, id uint) ([]models.Message, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Likes().LikedBy(ctx, id)
}
