package token

import (
	"encoding/base64"
	"fmt"

	"access-gate-service/internal/domain"
)

// KeySize はAES-256鍵のバイト数。
const KeySize = 32

// LoadKey はbase64エンコードされた鍵文字列を検証して生バイト列を返す。
// 鍵はプロビジョニング時に外部で生成され、ENCRYPTION_KEYで供給される。
// 未設定・base64不正・長さ不一致は起動失敗として扱う。
func LoadKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, domain.ErrKeyMissing
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyFormat, err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrKeyFormat, len(raw))
	}
	return raw, nil
}

// GenerateKeyString は新しい32バイト鍵を生成してbase64文字列で返す。
// 運用ではgatectl keygenから一度だけ使う。
func GenerateKeyString() (string, error) {
	key, err := randomBytes(KeySize)
	if err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
