package auth

import (
	"testing"

	"passport/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(cost int) *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{BcryptCost: cost}

	return cfg
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(testConfig(bcrypt.MinCost))

	password := "pw123"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// The stored hash verifies the original password and nothing else.
	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("pw124", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_DistinctPasswordsDoNotCrossVerify(t *testing.T) {
	hasher := NewBcryptHasher(testConfig(bcrypt.MinCost))

	hashA, err := hasher.Hash("alpha-secret")
	assert.NoError(t, err)
	hashB, err := hasher.Hash("beta-secret")
	assert.NoError(t, err)

	assert.True(t, hasher.Check("alpha-secret", hashA))
	assert.True(t, hasher.Check("beta-secret", hashB))
	assert.False(t, hasher.Check("alpha-secret", hashB))
	assert.False(t, hasher.Check("beta-secret", hashA))
}

func TestBcryptHasher_DefaultCostFallback(t *testing.T) {
	// Nil auth section falls back to bcrypt.DefaultCost instead of failing.
	hasher := NewBcryptHasher(&config.Config{})

	hash, err := hasher.Hash("pw123")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasher_CheckWithGarbageHash(t *testing.T) {
	hasher := NewBcryptHasher(testConfig(bcrypt.MinCost))

	// A malformed stored hash is a normal false, not a panic.
	assert.False(t, hasher.Check("pw123", "not-a-bcrypt-hash"))
}
