package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Greater(t, id, int64(0))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSha256HashWithSalt(t *testing.T) {
	h1 := Sha256HashWithSalt("motosync", "salt-a")
	h2 := Sha256HashWithSalt("motosync", "salt-a")
	h3 := Sha256HashWithSalt("motosync", "salt-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestGetSecretSalt(t *testing.T) {
	t.Setenv("MOTOSYNC_SECRET_SALT", "")
	assert.Equal(t, defaultSecretSalt, GetSecretSalt())

	t.Setenv("MOTOSYNC_SECRET_SALT", "override")
	assert.Equal(t, "override", GetSecretSalt())
}

func TestRandomToken(t *testing.T) {
	tok := RandomToken(32)
	assert.Len(t, tok, 32)
	assert.NotEqual(t, tok, RandomToken(32))
}
