package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "server-test-secret-0123456789abcdef"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestEnv(t)
	return app
}

// newTestEnv also returns the backing miniredis so tests can take Redis away.
func newTestEnv(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := &config.Config{Env: "test", Port: "0", JWTSecret: testSecret, SessionTTLHours: 1}
	s, err := NewServerWithDeps(cfg, db, rdb, WithAuthOptions(service.WithHashCost(bcrypt.MinCost)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	return s.NewApp(), mr
}

type apiResponse struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (r apiResponse) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func call(t *testing.T, app *fiber.App, method, path string, body any, token string) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{status: resp.StatusCode, body: raw, cookies: resp.Cookies()}
}

type authResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func signup(t *testing.T, app *fiber.App, username string) authResult {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@test.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var out authResult
	resp.decode(t, &out)
	return out
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	created := signup(t, app, "testuser")
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, models.DefaultImageURL, created.User.ImageURL)

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		resp := call(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "testuser", "email": "other@test.com", "password": "password123",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.status)
	})

	t.Run("short password rejected", func(t *testing.T) {
		resp := call(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "shorty", "email": "shorty@test.com", "password": "123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "testuser", "password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	login := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "testuser", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, login.status)
	var loggedIn authResult
	login.decode(t, &loggedIn)
	assert.Equal(t, created.User.ID, loggedIn.User.ID)
	assert.NotContains(t, string(login.body), "password\":")

	cookie := sessionCookie(login)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	me := call(t, app, http.MethodGet, "/api/users/me", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, me.status)
	var profile service.Profile
	me.decode(t, &profile)
	assert.Equal(t, "testuser", profile.User.Username)

	logout := call(t, app, http.MethodPost, "/api/auth/logout", nil, loggedIn.Token)
	assert.Equal(t, http.StatusOK, logout.status)

	after := call(t, app, http.MethodGet, "/api/users/me", nil, loggedIn.Token)
	assert.Equal(t, http.StatusUnauthorized, after.status)

	// The signup token is a separate session and still works.
	still := call(t, app, http.MethodGet, "/api/users/me", nil, created.Token)
	assert.Equal(t, http.StatusOK, still.status)
}

func TestSessionCookieAuth(t *testing.T) {
	app := newTestApp(t)
	u := signup(t, app, "cookie")

	req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
	req.Header.Set("Cookie", session.CookieName+"="+u.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMessageLifecycle(t *testing.T) {
	app := newTestApp(t)
	owner := signup(t, app, "owner")
	other := signup(t, app, "other")

	anon := call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "Hello"}, "")
	assert.Equal(t, http.StatusUnauthorized, anon.status)

	tooLong := call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": strings.Repeat("x", 141)}, owner.Token)
	assert.Equal(t, http.StatusBadRequest, tooLong.status)

	blank := call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "   "}, owner.Token)
	assert.Equal(t, http.StatusBadRequest, blank.status)

	created := call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "Hello"}, owner.Token)
	require.Equal(t, http.StatusCreated, created.status, string(created.body))
	var msg models.Message
	created.decode(t, &msg)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, owner.User.ID, msg.UserID)

	path := fmt.Sprintf("/api/messages/%d", msg.ID)
	got := call(t, app, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, got.status)

	forbidden := call(t, app, http.MethodDelete, path, nil, other.Token)
	assert.Equal(t, http.StatusForbidden, forbidden.status)

	deleted := call(t, app, http.MethodDelete, path, nil, owner.Token)
	assert.Equal(t, http.StatusOK, deleted.status)

	gone := call(t, app, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, gone.status)

	badID := call(t, app, http.MethodGet, "/api/messages/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, badID.status)
}

func TestFollowAndTimeline(t *testing.T) {
	app := newTestApp(t)
	me := signup(t, app, "me")
	friend := signup(t, app, "friend")
	stranger := signup(t, app, "stranger")

	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "from friend"}, friend.Token)
	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "from stranger"}, stranger.Token)

	follow := call(t, app, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", friend.User.ID), nil, me.Token)
	require.Equal(t, http.StatusOK, follow.status)

	self := call(t, app, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", me.User.ID), nil, me.Token)
	assert.Equal(t, http.StatusBadRequest, self.status)

	missing := call(t, app, http.MethodPost, "/api/users/follow/9999", nil, me.Token)
	assert.Equal(t, http.StatusNotFound, missing.status)

	var followers []models.User
	call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", friend.User.ID), nil, "").decode(t, &followers)
	require.Len(t, followers, 1)
	assert.Equal(t, me.User.ID, followers[0].ID)

	var feed []models.Message
	timeline := call(t, app, http.MethodGet, "/api/timeline", nil, me.Token)
	require.Equal(t, http.StatusOK, timeline.status)
	timeline.decode(t, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "from friend", feed[0].Text)

	var profile service.Profile
	call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", friend.User.ID), nil, me.Token).decode(t, &profile)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(1), profile.Counts.Messages)
	assert.Equal(t, int64(1), profile.Counts.Followers)

	unfollow := call(t, app, http.MethodPost, fmt.Sprintf("/api/users/stop-following/%d", friend.User.ID), nil, me.Token)
	require.Equal(t, http.StatusOK, unfollow.status)
	call(t, app, http.MethodGet, "/api/timeline", nil, me.Token).decode(t, &feed)
	assert.Empty(t, feed)

	anon := call(t, app, http.MethodGet, "/api/timeline", nil, "")
	assert.Equal(t, http.StatusUnauthorized, anon.status)
}

func TestLikeToggle(t *testing.T) {
	app := newTestApp(t)
	author := signup(t, app, "author")
	fan := signup(t, app, "fan")

	var msg models.Message
	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "likeable"}, author.Token).decode(t, &msg)
	likePath := fmt.Sprintf("/api/messages/%d/like", msg.ID)

	var toggled struct {
		Liked bool `json:"liked"`
	}
	call(t, app, http.MethodPost, likePath, nil, fan.Token).decode(t, &toggled)
	assert.True(t, toggled.Liked)

	var fetched models.Message
	call(t, app, http.MethodGet, fmt.Sprintf("/api/messages/%d", msg.ID), nil, "").decode(t, &fetched)
	assert.Equal(t, 1, fetched.LikesCount)

	var likes []models.Message
	call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/likes", fan.User.ID), nil, "").decode(t, &likes)
	require.Len(t, likes, 1)

	call(t, app, http.MethodPost, likePath, nil, fan.Token).decode(t, &toggled)
	assert.False(t, toggled.Liked)

	own := call(t, app, http.MethodPost, likePath, nil, author.Token)
	assert.Equal(t, http.StatusForbidden, own.status)

	unlike := call(t, app, http.MethodDelete, likePath, nil, fan.Token)
	assert.Equal(t, http.StatusOK, unlike.status)
}

func TestMessageLikers(t *testing.T) {
	app := newTestApp(t)
	author := signup(t, app, "author")
	fan := signup(t, app, "fan")

	var msg models.Message
	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "who likes this"}, author.Token).decode(t, &msg)
	msgPath := fmt.Sprintf("/api/messages/%d", msg.ID)

	var likers []models.User
	call(t, app, http.MethodGet, msgPath+"/likes", nil, "").decode(t, &likers)
	assert.Empty(t, likers)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, msgPath+"/like", nil, fan.Token).status)

	call(t, app, http.MethodGet, msgPath+"/likes", nil, "").decode(t, &likers)
	require.Len(t, likers, 1)
	assert.Equal(t, "fan", likers[0].Username)

	var seen models.Message
	call(t, app, http.MethodGet, msgPath, nil, fan.Token).decode(t, &seen)
	require.NotNil(t, seen.LikedByMe)
	assert.True(t, *seen.LikedByMe)

	call(t, app, http.MethodGet, msgPath, nil, author.Token).decode(t, &seen)
	require.NotNil(t, seen.LikedByMe)
	assert.False(t, *seen.LikedByMe)

	var anonymous models.Message
	call(t, app, http.MethodGet, msgPath, nil, "").decode(t, &anonymous)
	assert.Nil(t, anonymous.LikedByMe)

	missing := call(t, app, http.MethodGet, "/api/messages/9999/likes", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.status)
}

func TestDeletedAccountLikesDisappear(t *testing.T) {
	app := newTestApp(t)
	author := signup(t, app, "author")
	fan := signup(t, app, "fan")

	var msg models.Message
	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "liked then orphaned"}, author.Token).decode(t, &msg)
	msgPath := fmt.Sprintf("/api/messages/%d", msg.ID)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, msgPath+"/like", nil, fan.Token).status)

	// Warm the cached copy before the liker leaves.
	var before models.Message
	call(t, app, http.MethodGet, msgPath, nil, "").decode(t, &before)
	require.Equal(t, 1, before.LikesCount)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodDelete, "/api/users/me", nil, fan.Token).status)

	var after models.Message
	call(t, app, http.MethodGet, msgPath, nil, "").decode(t, &after)
	assert.Equal(t, 0, after.LikesCount)

	var likers []models.User
	call(t, app, http.MethodGet, msgPath+"/likes", nil, "").decode(t, &likers)
	assert.Empty(t, likers)
}

func TestAuthorRenameShowsOnCachedMessage(t *testing.T) {
	app := newTestApp(t)
	author := signup(t, app, "author")

	var msg models.Message
	call(t, app, http.MethodPost, "/api/messages", map[string]string{"text": "signed"}, author.Token).decode(t, &msg)
	msgPath := fmt.Sprintf("/api/messages/%d", msg.ID)

	var before models.Message
	call(t, app, http.MethodGet, msgPath, nil, "").decode(t, &before)
	require.NotNil(t, before.User)
	require.Equal(t, "author", before.User.Username)

	renamed := call(t, app, http.MethodPut, "/api/users/me", map[string]any{"username": "writer", "password": "password123"}, author.Token)
	require.Equal(t, http.StatusOK, renamed.status, string(renamed.body))

	var after models.Message
	call(t, app, http.MethodGet, msgPath, nil, "").decode(t, &after)
	require.NotNil(t, after.User)
	assert.Equal(t, "writer", after.User.Username)
}

func sessionCookie(resp apiResponse) *http.Cookie {
	for _, c := range resp.cookies {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestSessionEndsWhenRedisIsDown(t *testing.T) {
	app, mr := newTestEnv(t)
	leaving := signup(t, app, "leaving")
	deleting := signup(t, app, "deleting")
	mr.Close()

	logout := call(t, app, http.MethodPost, "/api/auth/logout", nil, leaving.Token)
	require.Equal(t, http.StatusOK, logout.status, string(logout.body))
	cookie := sessionCookie(logout)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	deleted := call(t, app, http.MethodDelete, "/api/users/me", nil, deleting.Token)
	require.Equal(t, http.StatusOK, deleted.status, string(deleted.body))
	cookie = sessionCookie(deleted)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	gone := call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", deleting.User.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, gone.status)
}

func TestUpdateAndDeleteAccount(t *testing.T) {
	app := newTestApp(t)
	u := signup(t, app, "editor")
	signup(t, app, "taken")

	wrong := call(t, app, http.MethodPut, "/api/users/me", map[string]any{"bio": "x", "password": "nope"}, u.Token)
	assert.Equal(t, http.StatusUnauthorized, wrong.status)

	noPassword := call(t, app, http.MethodPut, "/api/users/me", map[string]any{"bio": "x"}, u.Token)
	assert.Equal(t, http.StatusBadRequest, noPassword.status)

	conflict := call(t, app, http.MethodPut, "/api/users/me", map[string]any{"username": "taken", "password": "password123"}, u.Token)
	assert.Equal(t, http.StatusConflict, conflict.status)

	ok := call(t, app, http.MethodPut, "/api/users/me", map[string]any{
		"bio": "new bio", "location": "Lisbon", "password": "password123",
	}, u.Token)
	require.Equal(t, http.StatusOK, ok.status, string(ok.body))
	var updated models.User
	ok.decode(t, &updated)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "Lisbon", updated.Location)

	var users []models.User
	call(t, app, http.MethodGet, "/api/users?q=EDIT", nil, "").decode(t, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "new bio", users[0].Bio)

	deleted := call(t, app, http.MethodDelete, "/api/users/me", nil, u.Token)
	require.Equal(t, http.StatusOK, deleted.status)

	gone := call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", u.User.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, gone.status)

	revoked := call(t, app, http.MethodGet, "/api/users/me", nil, u.Token)
	assert.Equal(t, http.StatusUnauthorized, revoked.status)
}

func TestHealthChecks(t *testing.T) {
	app := newTestApp(t)

	live := call(t, app, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, live.status)

	ready := call(t, app, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, ready.status, string(ready.body))
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	ready.decode(t, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["redis"])
}

func TestAuthRequired_RejectsForeignToken(t *testing.T) {
	app := newTestApp(t)
	foreign, _, err := session.NewManager("some-other-secret-0123456789abcdef", time.Hour, nil).Issue(1, "x")
	require.NoError(t, err)

	resp := call(t, app, http.MethodGet, "/api/users/me", nil, foreign)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, query, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Counts(ctx context.Context, id uint) (*repository.UserCounts, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserCounts), args.Error(1)
}

// mockStore serves only the user repository; the handlers under test never touch the others.
type mockStore struct {
	repository.Store
	users *MockUserRepository
}

func (s *mockStore) Users() repository.UserRepository { return s.users }

func (s *mockStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func newMockServer(users *MockUserRepository) *Server {
	store := &mockStore{users: users}
	sessions := session.NewManager(testSecret, time.Hour, nil)
	auth := service.NewAuthService(store, sessions, service.WithHashCost(bcrypt.MinCost))
	return &Server{
		config:      &config.Config{Env: "test", JWTSecret: testSecret},
		store:       store,
		sessions:    sessions,
		authService: auth,
		userService: service.NewUserService(store, auth.Authenticate),
	}
}

func TestLogin_StorageFailureIsInternal(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByUsername", mock.Anything, "alice").
		Return(nil, models.NewInternalError(errors.New("connection refused")))

	app := fiber.New()
	app.Post("/login", newMockServer(users).Login)

	resp := call(t, app, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "password123"}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.status)
	assert.NotContains(t, string(resp.body), "connection refused")
	users.AssertExpectations(t)
}

func TestSignup_ConflictFromRepository(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "newbie").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "newbie@test.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 10 }).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Existing email",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "newbie").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "newbie@test.com").Return(&models.User{ID: 2}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Unique violation on insert",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "newbie").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "newbie@test.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.NewConflictError("Username or email already taken", nil))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.mockSetup(users)

			app := fiber.New()
			app.Post("/signup", newMockServer(users).Signup)

			resp := call(t, app, http.MethodPost, "/signup", map[string]string{
				"username": "newbie", "email": "newbie@test.com", "password": "password123",
			}, "")
			assert.Equal(t, tt.expectedStatus, resp.status, string(resp.body))
			users.AssertExpectations(t)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "message ID", humanizeParam("messageId"))
	assert.Equal(t, "follow target ID", humanizeParam("followTargetId"))
}
