package infra

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2idのパラメータ。登録時と検証時で同じ値を使う。
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 2
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Argon2Verifier はargon2idエンコード済みハッシュに対するパスワード検証を提供する。
type Argon2Verifier struct{}

// NewArgon2Verifier は新しいArgon2Verifierを生成する。
func NewArgon2Verifier() *Argon2Verifier {
	return &Argon2Verifier{}
}

// Verify はエンコード済みハッシュと候補パスワードを照合する。
// フォーマット不正・パラメータ不正はすべてfalse（フェイルクローズ）。
// ハッシュ値の比較は定数時間で行う。
func (v *Argon2Verifier) Verify(encodedHash, candidate string) bool {
	memory, time, threads, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}
	derived := argon2.IDKey([]byte(candidate), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, derived) == 1
}

// HashPassword はパスワードをargon2idでハッシュ化してエンコード文字列を返す。
// 登録フローは本体プラットフォーム側にあるため、ここではseedコマンドから使う。
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sampling salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// decodeHash は $argon2id$v=19$m=...,t=...,p=...$salt$hash 形式を分解する。
func decodeHash(encoded string) (memory uint32, time uint32, threads uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decoding salt: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(hash) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("empty hash")
	}
	return memory, time, threads, salt, hash, nil
}
