package cryptopackage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateFromPassword_Format 测试哈希输出格式
func TestGenerateFromPassword_Format(t *testing.T) {
	hash, err := GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

// TestGenerateFromPassword_UniqueSalt 测试相同密码产生不同哈希
func TestGenerateFromPassword_UniqueSalt(t *testing.T) {
	first, err := GenerateFromPassword("samepassword")
	require.NoError(t, err)
	second, err := GenerateFromPassword("samepassword")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

// TestComparePasswordAndHash 测试密码校验往返
func TestComparePasswordAndHash(t *testing.T) {
	hash, err := GenerateFromPassword("supersecret")
	require.NoError(t, err)

	match, err := ComparePasswordAndHash("supersecret", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordAndHash("wrongpassword", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

// TestComparePasswordAndHash_InvalidFormat 测试畸形哈希
func TestComparePasswordAndHash_InvalidFormat(t *testing.T) {
	for _, encoded := range []string{"", "plainhash", "$bcrypt$whatever", "$argon2id$v=19$m=65536"} {
		_, err := ComparePasswordAndHash("password", encoded)
		assert.Error(t, err)
	}
}
