package cryptopackage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id 参数
const (
	// memory 以 KiB 为单位的内存消耗
	argon2Memory uint32 = 65536 // 64 MB

	// iterations 迭代次数（时间成本）
	argon2Iterations uint32 = 2

	// parallelism 并行度（线程数）
	argon2Parallelism uint8 = 4

	argon2SaltLength uint32 = 16
	argon2KeyLength  uint32 = 32
)

// GenerateFromPassword 使用 Argon2id 算法哈希密码
// 返回的字符串包含所有必要的参数，可以安全地存储在数据库中
func GenerateFromPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// $argon2id$v={version}$m={memory},t={iterations},p={parallelism}${salt}${hash}
	encodedHash := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Iterations, argon2Parallelism, b64Salt, b64Hash)

	return encodedHash, nil
}

// ComparePasswordAndHash 比较明文密码和 Argon2id 哈希值
func ComparePasswordAndHash(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")

	// 期望格式: "", "argon2id", "v=...", "m=...,t=...,p=...", "salt", "hash"
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false, errors.New("invalid Argon2id hash format: incorrect number of parts or missing prefix")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid Argon2id version format: %w", err)
	}

	var memory, iterations, parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid Argon2id cost parameters format: %w", err)
	}

	decodedSalt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), decodedSalt, iterations, memory, uint8(parallelism), uint32(len(decodedHash)))

	// constant-time 比较，防止定时攻击
	if subtle.ConstantTimeCompare(decodedHash, computedHash) == 1 {
		return true, nil
	}
	return false, nil
}
