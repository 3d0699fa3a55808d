package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-api/models"
)

const testSecret = "test-secret-that-is-long-enough-1234"

func TestTokenService_IssueAndParse(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour, nil)
	user := models.User{UserID: 7, Email: "a@example.com", Role: models.RoleModerator}

	token, claims, err := ts.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, models.RoleModerator, parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)

	_, err = NewTokenService("another-secret", time.Hour, nil).Parse(token)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestTokenService_RejectsExpiredAndForeignAlgorithms(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour, nil)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ts.Parse(signed)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.Parse(unsigned)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestTokenService_RevokeUsesRedisDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ts := NewTokenService(testSecret, time.Hour, rdb)
	_, claims, err := ts.Issue(models.User{UserID: 3, Email: "b@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	ctx := context.Background()
	revoked, err := ts.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ts.Revoke(ctx, claims))

	revoked, err = ts.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(denylistPrefix + claims.ID)
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

	mr.FastForward(2 * time.Hour)
	revoked, err = ts.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenService_WithoutRedisNothingIsRevoked(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour, nil)
	_, claims, err := ts.Issue(models.User{UserID: 3})
	require.NoError(t, err)

	require.NoError(t, ts.Revoke(context.Background(), claims))
	revoked, err := ts.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenService_DenylistErrorsSurface(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectExists(denylistPrefix + "abc").SetErr(errors.New("connection refused"))

	ts := NewTokenService(testSecret, time.Hour, rdb)
	_, err := ts.IsRevoked(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_MissingSecret(t *testing.T) {
	_, _, err := NewTokenService("", time.Hour, nil).Issue(models.User{UserID: 1})
	assert.Equal(t, KindInternal, KindOf(err))
}
