// Package seed fills a warbler database with demo data for development and
// testing.
package seed

import (
	"fmt"
	"log/slog"

	"warbler/internal/middleware"
	"warbler/internal/models"

	"gorm.io/gorm"
)

// Options control how much data Seed creates.
type Options struct {
	NumUsers       int
	NumMessages    int
	FollowsPerUser int
	LikesPerUser   int
	ShouldClean    bool
	Factory        FactoryOptions
}

// Result summarizes what Seed created.
type Result struct {
	Users    int
	Messages int
	Follows  int
	Likes    int
}

// Seed populates db with users, messages, follows and likes.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed needs at least one user, got %d", opts.NumUsers)
	}

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts.Factory)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(func(u *models.User) {
			// Suffix with the index so generated names never collide.
			u.Username = fmt.Sprintf("%s_%d", u.Username, i)
			u.Email = fmt.Sprintf("%d.%s", i, u.Email)
		})
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, u)
	}
	middleware.Logger.Info("Seeded users", slog.Int("count", len(users)))

	msgs := make([]*models.Message, 0, opts.NumMessages)
	for i := 0; i < opts.NumMessages; i++ {
		msgs = append(msgs, f.BuildMessage(users[i%len(users)]))
	}
	if err := f.CreateMessagesBatch(msgs); err != nil {
		return nil, fmt.Errorf("create messages: %w", err)
	}
	middleware.Logger.Info("Seeded messages", slog.Int("count", len(msgs)))

	res := &Result{Users: len(users), Messages: len(msgs)}

	for _, u := range users {
		for _, target := range f.pickUsers(users, u, opts.FollowsPerUser) {
			if err := f.Follow(u, target); err != nil {
				return nil, fmt.Errorf("follow %d -> %d: %w", u.ID, target.ID, err)
			}
			res.Follows++
		}
		for _, m := range f.pickMessages(msgs, u, opts.LikesPerUser) {
			if err := f.Like(u, m); err != nil {
				return nil, fmt.Errorf("like %d by %d: %w", m.ID, u.ID, err)
			}
			res.Likes++
		}
	}
	middleware.Logger.Info("Seeded relations",
		slog.Int("follows", res.Follows), slog.Int("likes", res.Likes))

	return res, nil
}

// pickUsers returns up to n distinct users other than self.
func (f *Factory) pickUsers(users []*models.User, self *models.User, n int) []*models.User {
	var out []*models.User
	for _, idx := range f.rng.Perm(len(users)) {
		if len(out) >= n {
			break
		}
		if users[idx].ID != self.ID {
			out = append(out, users[idx])
		}
	}
	return out
}

// pickMessages returns up to n distinct messages not written by self.
func (f *Factory) pickMessages(msgs []*models.Message, self *models.User, n int) []*models.Message {
	var out []*models.Message
	for _, idx := range f.rng.Perm(len(msgs)) {
		if len(out) >= n {
			break
		}
		if msgs[idx].UserID != self.ID {
			out = append(out, msgs[idx])
		}
	}
	return out
}

// ClearAll deletes every row from the warbler tables, children first.
func ClearAll(db *gorm.DB) error {
	for _, table := range []string{"likes", "follows", "messages", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
