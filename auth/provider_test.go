package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outpost/models"
)

func TestSessionStartsLoading(t *testing.T) {
	s := NewSession("test-secret", time.Hour)

	assert.True(t, s.Loading())
	assert.Nil(t, s.Current())
}

func TestRestoreSettlesLoading(t *testing.T) {
	s := NewSession("test-secret", time.Hour)

	s.Restore(nil)

	assert.False(t, s.Loading())
	assert.Nil(t, s.Current())
}

func TestRestoreWithIdentity(t *testing.T) {
	s := NewSession("test-secret", time.Hour)

	s.Restore(&models.User{Username: "kaoru", Email: "kaoru@example.com"})

	assert.False(t, s.Loading())
	require.NotNil(t, s.Current())
	assert.Equal(t, "kaoru", s.Current().Username)
}

func TestListenersNotifiedOnChange(t *testing.T) {
	s := NewSession("test-secret", time.Hour)

	var seen []*models.User
	s.Subscribe(func(u *models.User) {
		seen = append(seen, u)
	})

	user := &models.User{Username: "kaoru"}
	s.SetCurrent(user)
	s.Clear()

	require.Len(t, seen, 2)
	assert.Equal(t, user, seen[0])
	assert.Nil(t, seen[1])
}

func TestTokenRequiresIdentity(t *testing.T) {
	s := NewSession("test-secret", time.Hour)
	s.Restore(nil)

	_, err := s.Token(context.Background())
	assert.Error(t, err)
}

func TestTokenForCurrentIdentity(t *testing.T) {
	s := NewSession("test-secret", time.Hour)
	s.SetCurrent(&models.User{Username: "kaoru", Email: "kaoru@example.com"})

	token, err := s.Token(context.Background())
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "kaoru", claims.Username)
}
