package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-1234"

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)

	token, issued, err := m.Issue(42, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)
	token, _, err := m.Issue(1, "alice")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("another-secret-another-secret-1234", time.Hour, nil).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager(testSecret, time.Hour, nil)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign audience", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = m.Parse(foreign)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevoke(t *testing.T) {
	mr, rdb := newRedis(t)
	m := NewManager(testSecret, time.Hour, rdb)
	ctx := context.Background()

	token, claims, err := m.Issue(7, "bob")
	require.NoError(t, err)

	_, err = m.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	_, err = m.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)

	assert.True(t, mr.Exists(revokedKeyPrefix+claims.ID))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(revokedKeyPrefix+claims.ID).Seconds(), 5)
}

func TestRevoke_WithoutRedisIsNoop(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)
	_, claims, err := m.Issue(7, "bob")
	require.NoError(t, err)

	assert.NoError(t, m.Revoke(context.Background(), claims))
	revoked, err := m.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestIssue_RequiresSecret(t *testing.T) {
	_, _, err := NewManager("", time.Hour, nil).Issue(1, "x")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UserID: 3, Username: "carol"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), s.UserID)
}
