// Package token はURL安全なトークンの認証付き暗号コーデックを提供する。
//
// トークンのワイヤ形式は nonce(12B) ‖ ciphertext ‖ tag(16B) をbase64url
// エンコードし、末尾の'='を除去したもの。識別子および小さなJSONペイロードを
// ユーザー可視のURLに埋め込むために使う。
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"access-gate-service/internal/domain"
)

const (
	// NonceSize はGCMのnonce長（96ビット）。
	NonceSize = 12
	// tagSize はGCMの認証タグ長（128ビット）。
	tagSize = 16
	// minTokenSize は復号可能なトークンの最小生バイト数（nonce + tag）。
	minTokenSize = NonceSize + tagSize
)

// Codec はAES-256-GCMによるトークンの暗号化・復号を提供する。
// AEADは初期化後に変更されないため並行利用できる。
type Codec struct {
	aead cipher.AEAD
}

// NewCodec は32バイト鍵からCodecを生成する。
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrKeyFormat, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// randomBytes は暗号論的乱数をnバイト返す。
func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// seal は平文を暗号化してURL安全な文字列にエンコードする。
// nonceは呼び出しごとに新規サンプリングする。鍵の生存期間内で再利用しない。
func (c *Codec) seal(plaintext []byte) (string, error) {
	nonce, err := randomBytes(NonceSize)
	if err != nil {
		return "", fmt.Errorf("sampling nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// open はトークンをデコード・検証して平文を返す。
// 復号側は'='パディングの有無を問わず受理するが、長さが4の倍数に揃わない
// パディングは形式エラーとする。
func (c *Codec) open(t string) ([]byte, error) {
	trimmed := strings.TrimRight(t, "=")
	if trimmed != t && len(t)%4 != 0 {
		return nil, fmt.Errorf("%w: bad padding", domain.ErrTokenMalformed)
	}
	raw, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if len(raw) < minTokenSize {
		return nil, fmt.Errorf("%w: token too short", domain.ErrTokenMalformed)
	}
	nonce, sealed := raw[:NonceSize], raw[NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return plaintext, nil
}

// EncryptID は識別子文字列を暗号化してトークンを返す。空文字列も許容する。
func (c *Codec) EncryptID(id string) (string, error) {
	t, err := c.seal([]byte(id))
	if err != nil {
		return "", fmt.Errorf("encrypting id: %w", err)
	}
	return t, nil
}

// DecryptID はトークンを復号して元の識別子を返す。
// 復号結果が正しいUTF-8でない場合は形式エラー。
func (c *Codec) DecryptID(t string) (string, error) {
	plaintext, err := c.open(t)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", domain.ErrTokenMalformed)
	}
	return string(plaintext), nil
}

// EncryptData はペイロードを正規化JSONに直列化して暗号化する。
// encoding/jsonはマップのキーを辞書順に並べ余分な空白を出さないため、
// 等しいペイロードは等しい平文になる（nonceが異なるのでトークンは毎回異なる）。
func (c *Codec) EncryptData(payload map[string]any) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serialising payload: %w", err)
	}
	t, err := c.seal(plaintext)
	if err != nil {
		return "", fmt.Errorf("encrypting payload: %w", err)
	}
	return t, nil
}

// DecryptData はトークンを復号してJSONペイロードに戻す。
func (c *Codec) DecryptData(t string) (map[string]any, error) {
	plaintext, err := c.open(t)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	return payload, nil
}
