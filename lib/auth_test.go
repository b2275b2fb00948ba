package lib

import (
	"net/http/httptest"
	"pizzeria_server/structs"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() *structs.AuthClaims {
	now := time.Now()
	return &structs.AuthClaims{
		Sub:   uuid.New(),
		Email: "mario@example.com",
		Role:  "customer",
		Iat:   now,
		Exp:   now.Add(time.Hour),
		Jti:   uuid.New(),
	}
}

func TestSignAndParseToken(t *testing.T) {
	claims := testClaims()

	token, err := SignToken(claims, true, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, true, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.Equal(t, claims.Exp.Unix(), parsed.Exp.Unix())
}

func TestParseToken_Rejects(t *testing.T) {
	claims := testClaims()
	access, err := SignToken(claims, true, "secret")
	require.NoError(t, err)

	_, err = ParseToken(access, false, "secret")
	assert.Error(t, err, "access token must not pass as refresh token")

	_, err = ParseToken(access, true, "other-secret")
	assert.Error(t, err)

	claims.Exp = time.Now().Add(-time.Minute)
	expired, err := SignToken(claims, true, "secret")
	require.NoError(t, err)
	_, err = ParseToken(expired, true, "secret")
	assert.Error(t, err)
}

func TestExtractClaims(t *testing.T) {
	token, err := SignToken(testClaims(), true, "secret")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/auth/me", nil)
	_, err = ExtractClaims(r, "secret")
	assert.Error(t, err)

	rec := httptest.NewRecorder()
	SetCookie(AccessCookieName, token, time.Now().Add(time.Hour), rec)
	r.AddCookie(rec.Result().Cookies()[0])

	claims, err := ExtractClaims(r, "secret")
	require.NoError(t, err)
	assert.Equal(t, "mario@example.com", claims.Email)
}

func TestHashAndVerifyPassword(t *testing.T) {
	params := &structs.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

	hash, err := HashPassword("margherita", params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword("margherita", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hawaii", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("margherita", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
