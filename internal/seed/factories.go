package seed

import (
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "password123"

// FactoryOptions tune how the Factory builds rows.
type FactoryOptions struct {
	// MaxDays spreads message timestamps over the last MaxDays days.
	MaxDays int
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// Factory builds warbler entities with fake content and persists them.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	rng  *rand.Rand
	hash string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts FactoryOptions) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	// All seeded users share one password, so hash it once.
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404: seeding only
		hash: string(hashed),
	}, nil
}

// CreateUser persists a fake user. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:       fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Password:       f.hash,
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		HeaderImageURL: models.DefaultHeaderImageURL,
		Bio:            gofakeit.Sentence(10),
		Location:       gofakeit.City(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Omit("Messages").Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildMessage returns an unsaved message by user with a past timestamp.
func (f *Factory) BuildMessage(user *models.User) *models.Message {
	text := gofakeit.Sentence(f.rng.Intn(12) + 4)
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		text = string([]rune(text)[:models.MaxMessageLength])
	}

	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return &models.Message{
		Text:      text,
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-back),
	}
}

// CreateMessagesBatch persists messages in batches.
func (f *Factory) CreateMessagesBatch(msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(msgs, 200).Error
}

// Follow makes follower follow followed. Existing edges are kept.
func (f *Factory) Follow(follower, followed *models.User) error {
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error
}

// Like records that user liked msg. Existing likes are kept.
func (f *Factory) Like(user *models.User, msg *models.Message) error {
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.Like{UserID: user.ID, MessageID: msg.ID}).Error
}
