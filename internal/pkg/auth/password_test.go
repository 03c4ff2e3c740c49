// internal/pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func TestValidatePassword(t *testing.T) {
	manager := NewPasswordManager(&config.Config{})

	assert.NoError(t, manager.ValidatePassword("Sunny1day"))
	assert.Error(t, manager.ValidatePassword("short1A"))
	assert.Error(t, manager.ValidatePassword("alllowercase1"))
	assert.Error(t, manager.ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, manager.ValidatePassword("NoNumbersHere"))
}

func TestGenerateResetCode(t *testing.T) {
	manager := NewPasswordManager(&config.Config{})

	code, err := manager.GenerateResetCode()
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
