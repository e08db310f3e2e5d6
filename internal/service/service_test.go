package service

import (
	"context"
	"testing"
	"time"

	"warbler/internal/database"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	store    repository.Store
	auth     *AuthService
	users    *UserService
	messages *MessageService
	sessions *session.Manager
	redis    *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := repository.NewStore(db)
	sessions := session.NewManager("service-test-secret-0123456789abcdef", time.Hour, rdb)
	auth := NewAuthService(store, sessions, WithHashCost(bcrypt.MinCost))
	return &testEnv{
		db:       db,
		store:    store,
		auth:     auth,
		users:    NewUserService(store, auth.Authenticate),
		messages: NewMessageService(store),
		sessions: sessions,
		redis:    mr,
	}
}

func (e *testEnv) signup(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.signup(t, "testuser")
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, len(u.Password) > 0)
	assert.Equal(t, models.DefaultImageURL, u.ImageURL)

	t.Run("duplicate username conflicts and persists nothing", func(t *testing.T) {
		_, err := env.auth.Signup(ctx, SignupInput{Username: "testuser", Email: "new@test.com", Password: "password123"})
		assert.True(t, models.HasCode(err, models.CodeConflict))
		assert.Equal(t, int64(1), countRows(t, env.db, &models.User{}))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := env.auth.Signup(ctx, SignupInput{Username: "someoneelse", Email: "testuser@test.com", Password: "password123"})
		assert.True(t, models.HasCode(err, models.CodeConflict))
		assert.Equal(t, int64(1), countRows(t, env.db, &models.User{}))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.auth.Signup(ctx, SignupInput{Username: "x"})
		assert.True(t, models.HasCode(err, models.CodeValidation))
	})

	t.Run("custom image kept", func(t *testing.T) {
		u, err := env.auth.Signup(ctx, SignupInput{Username: "pic", Email: "pic@test.com", Password: "password123", ImageURL: "http://img/x.png"})
		require.NoError(t, err)
		assert.Equal(t, "http://img/x.png", u.ImageURL)
	})
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "testuser")

	got, err := env.auth.Authenticate(ctx, "testuser", "password123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = env.auth.Authenticate(ctx, "testuser", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = env.auth.Authenticate(ctx, "nobody", "password123")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "testuser")

	token, user, err := env.auth.Login(ctx, "testuser", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, u.ID, user.ID)

	claims, err := env.sessions.Verify(ctx, token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	require.NoError(t, env.auth.Logout(ctx, token))
	_, err = env.sessions.Verify(ctx, token)
	assert.ErrorIs(t, err, session.ErrRevoked)

	assert.NoError(t, env.auth.Logout(ctx, "garbage"), "logging out an invalid token is a no-op")

	token, user, err = env.auth.Login(ctx, "testuser", "nope")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestFollowUnfollow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.signup(t, "u1")
	u2 := env.signup(t, "u2")

	require.NoError(t, env.users.Follow(ctx, u1.ID, u2.ID))
	require.NoError(t, env.users.Follow(ctx, u1.ID, u2.ID))
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Follow{}))

	following, err := env.users.IsFollowing(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, following)
	followedBy, err := env.users.IsFollowedBy(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, followedBy)
	reverse, err := env.users.IsFollowing(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	profile, err := env.users.GetProfile(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsFollowedBy)
	assert.True(t, profile.User.IsFollowedBy(u1))
	assert.Equal(t, int64(1), profile.Counts.Followers)

	require.NoError(t, env.users.Unfollow(ctx, u1.ID, u2.ID))
	require.NoError(t, env.users.Unfollow(ctx, u1.ID, u2.ID))
	assert.Equal(t, int64(0), countRows(t, env.db, &models.Follow{}))

	err = env.users.Follow(ctx, u1.ID, u1.ID)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	err = env.users.Follow(ctx, u1.ID, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostAndDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "owner")
	other := env.signup(t, "other")

	msg, err := env.messages.Post(ctx, owner.ID, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	require.NotNil(t, msg.User)
	assert.Equal(t, owner.ID, msg.User.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	_, err = env.messages.Post(ctx, owner.ID, "")
	assert.True(t, models.HasCode(err, models.CodeValidation))
	_, err = env.messages.Post(ctx, 9999, "Hello")
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	third := env.signup(t, "third")
	otherMsg, err := env.messages.Post(ctx, other.ID, "mine")
	require.NoError(t, err)
	thirdMsg, err := env.messages.Post(ctx, third.ID, "theirs")
	require.NoError(t, err)
	require.NoError(t, env.messages.Like(ctx, other.ID, thirdMsg.ID))
	require.NoError(t, env.messages.Like(ctx, other.ID, msg.ID))

	err = env.messages.Delete(ctx, other.ID, msg.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	assert.Equal(t, int64(3), countRows(t, env.db, &models.Message{}))

	require.NoError(t, env.messages.Delete(ctx, owner.ID, msg.ID))
	assert.Equal(t, int64(2), countRows(t, env.db, &models.Message{}))

	// Only the deleted message's likes go; everyone else's data stays.
	_, err = env.messages.Get(ctx, otherMsg.ID, 0)
	assert.NoError(t, err)
	stillLiked, err := env.store.Likes().Exists(ctx, other.ID, thirdMsg.ID)
	require.NoError(t, err)
	assert.True(t, stillLiked)
	gone, err := env.store.Likes().Exists(ctx, other.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, gone)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Like{}))

	_, err = env.messages.Get(ctx, msg.ID, 0)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.signup(t, "author")
	fan := env.signup(t, "fan")
	msg, err := env.messages.Post(ctx, author.ID, "like me")
	require.NoError(t, err)

	require.NoError(t, env.messages.Like(ctx, fan.ID, msg.ID))
	require.NoError(t, env.messages.Like(ctx, fan.ID, msg.ID))
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Like{}))

	liked, err := env.users.LikedMessages(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, msg.ID, liked[0].ID)

	likers, err := env.messages.Likers(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, fan.ID, likers[0].ID)
	_, err = env.messages.Likers(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	seen, err := env.messages.Get(ctx, msg.ID, fan.ID)
	require.NoError(t, err)
	require.NotNil(t, seen.LikedByMe)
	assert.True(t, *seen.LikedByMe)
	seen, err = env.messages.Get(ctx, msg.ID, author.ID)
	require.NoError(t, err)
	require.NotNil(t, seen.LikedByMe)
	assert.False(t, *seen.LikedByMe)
	anon, err := env.messages.Get(ctx, msg.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, anon.LikedByMe)

	profile, err := env.users.GetProfile(ctx, author.ID, fan.ID)
	require.NoError(t, err)
	require.Len(t, profile.User.Messages, 1)
	require.NotNil(t, profile.User.Messages[0].LikedByMe)
	assert.True(t, *profile.User.Messages[0].LikedByMe)

	now, err := env.messages.ToggleLike(ctx, fan.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, now)
	now, err = env.messages.ToggleLike(ctx, fan.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, now)

	require.NoError(t, env.messages.Unlike(ctx, fan.ID, msg.ID))
	assert.Equal(t, int64(0), countRows(t, env.db, &models.Like{}))

	err = env.messages.Like(ctx, author.ID, msg.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden))

	err = env.messages.Like(ctx, fan.ID, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.signup(t, "me")
	friend := env.signup(t, "friend")
	stranger := env.signup(t, "stranger")
	require.NoError(t, env.users.Follow(ctx, me.ID, friend.ID))

	for i := 0; i < 3; i++ {
		_, err := env.messages.Post(ctx, friend.ID, "from friend")
		require.NoError(t, err)
	}
	_, err := env.messages.Post(ctx, stranger.ID, "from stranger")
	require.NoError(t, err)
	mine, err := env.messages.Post(ctx, me.ID, "mine")
	require.NoError(t, err)

	feed, err := env.messages.Timeline(ctx, me.ID, 500)
	require.NoError(t, err)
	require.Len(t, feed, 4)
	assert.Equal(t, mine.ID, feed[0].ID)
	for _, m := range feed {
		assert.NotEqual(t, stranger.ID, m.UserID)
	}

	feed, err = env.messages.Timeline(ctx, me.ID, 2)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "original")
	env.signup(t, "taken")

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.users.UpdateProfile(ctx, UpdateProfileInput{UserID: u.ID, CurrentPassword: "nope", Username: "renamed"})
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
	})

	t.Run("username taken", func(t *testing.T) {
		_, err := env.users.UpdateProfile(ctx, UpdateProfileInput{UserID: u.ID, CurrentPassword: "password123", Username: "taken"})
		assert.True(t, models.HasCode(err, models.CodeConflict))
	})

	t.Run("partial update keeps password", func(t *testing.T) {
		bio := "hello there"
		updated, err := env.users.UpdateProfile(ctx, UpdateProfileInput{
			UserID:          u.ID,
			CurrentPassword: "password123",
			Username:        "renamed",
			Bio:             &bio,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Username)
		assert.Equal(t, "hello there", updated.Bio)
		assert.Equal(t, "original@test.com", updated.Email)

		again, err := env.auth.Authenticate(ctx, "renamed", "password123")
		require.NoError(t, err)
		assert.NotNil(t, again)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doomed := env.signup(t, "doomed")
	other := env.signup(t, "other")

	own, err := env.messages.Post(ctx, doomed.ID, "bye")
	require.NoError(t, err)
	theirs, err := env.messages.Post(ctx, other.ID, "still here")
	require.NoError(t, err)
	require.NoError(t, env.users.Follow(ctx, doomed.ID, other.ID))
	require.NoError(t, env.users.Follow(ctx, other.ID, doomed.ID))
	require.NoError(t, env.messages.Like(ctx, doomed.ID, theirs.ID))
	require.NoError(t, env.messages.Like(ctx, other.ID, own.ID))

	require.NoError(t, env.users.DeleteUser(ctx, doomed.ID))

	assert.Equal(t, int64(1), countRows(t, env.db, &models.User{}))
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Message{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &models.Follow{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &models.Like{}))

	err = env.users.DeleteUser(ctx, doomed.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "alice")
	env.signup(t, "bob")

	all, err := env.users.ListUsers(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := env.users.ListUsers(ctx, "BO", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bob", found[0].Username)
}
