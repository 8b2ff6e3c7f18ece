package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCredentials(t *testing.T) {
	t.Run("env supplied", func(t *testing.T) {
		t.Setenv("ADMIN_EMAIL", "ops@claromed.com.br")
		t.Setenv("ADMIN_PASSWORD", "s3cret-pass")

		email, password, generated := adminCredentials()
		assert.Equal(t, "ops@claromed.com.br", email)
		assert.Equal(t, "s3cret-pass", password)
		assert.False(t, generated)
	})

	t.Run("defaults with generated password", func(t *testing.T) {
		t.Setenv("ADMIN_EMAIL", "")
		t.Setenv("ADMIN_PASSWORD", "")

		email, password, generated := adminCredentials()
		assert.Equal(t, "admin@clinic.local", email)
		require.True(t, generated)
		assert.GreaterOrEqual(t, len(password), 16)
	})
}
