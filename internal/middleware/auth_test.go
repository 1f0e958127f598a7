package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("abc"))
	assert.Equal(t, "abc", NormalizeToken("  abc  "))
	assert.Equal(t, "abc", NormalizeToken("Bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("bearer   abc"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestValidateTokenRequiresToken(t *testing.T) {
	_, err := ValidateToken("")
	assert.Error(t, err)
}
