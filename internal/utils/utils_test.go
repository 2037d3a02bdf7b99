package utils

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"special-requests/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	u := models.User{StoreCode: "S1", StoreName: "Store One", Email: "s1@x.io", Role: models.RoleUser}

	tok, err := SignJWT("secret", u, time.Hour)
	require.NoError(t, err)

	c, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, u, c.User())

	_, err = ParseJWT("other", tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	tok, err := SignJWT("secret", models.User{StoreCode: "S1"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = 12 })

	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "pw"))
	assert.False(t, CheckPassword(h, "nope"))
}

func TestQueryInt(t *testing.T) {
	q := url.Values{"limit": {"50"}, "bad": {"x"}, "neg": {"-3"}}

	assert.Equal(t, 20, QueryInt(q, "limit", 10, 1, 20))
	assert.Equal(t, 10, QueryInt(q, "bad", 10, 1, 20))
	assert.Equal(t, 1, QueryInt(q, "neg", 10, 1, 20))
	assert.Equal(t, 10, QueryInt(q, "missing", 10, 1, 20))
}

func TestUserFrom(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), models.User{StoreCode: "S1", Role: models.RoleAdmin})
	u, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, u.Role)
}
