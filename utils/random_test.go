package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateRandomToken_Success 测试随机Token生成
func TestGenerateRandomToken_Success(t *testing.T) {
	token, err := GenerateRandomToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

// TestGenerateRandomToken_Uniqueness 测试Token唯一性
func TestGenerateRandomToken_Uniqueness(t *testing.T) {
	const numTokens = 100
	tokens := make(map[string]bool)

	for i := 0; i < numTokens; i++ {
		token, err := GenerateRandomToken(32)
		require.NoError(t, err)
		tokens[token] = true
	}
	assert.Equal(t, numTokens, len(tokens), "All tokens should be unique")
}

// TestGenerateCode_Length 测试邀请码长度
func TestGenerateCode_Length(t *testing.T) {
	for _, length := range []int{1, 6, 10} {
		code, err := GenerateCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
	}
}

// TestGenerateCode_Alphabet 测试邀请码字符集（不含易混淆字符）
func TestGenerateCode_Alphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(10)
		require.NoError(t, err)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
		}
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "l")
	}
}

// TestGenerateCode_Uniqueness 测试邀请码随机性
func TestGenerateCode_Uniqueness(t *testing.T) {
	codes := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(10)
		require.NoError(t, err)
		codes[code] = true
	}
	assert.Equal(t, 100, len(codes))
}
