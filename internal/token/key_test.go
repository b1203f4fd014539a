package token

import (
	"encoding/base64"
	"errors"
	"testing"

	"access-gate-service/internal/domain"
)

func TestLoadKey_Missing(t *testing.T) {
	_, err := LoadKey("")
	if !errors.Is(err, domain.ErrKeyMissing) {
		t.Errorf("want ErrKeyMissing, got %v", err)
	}
}

func TestLoadKey_InvalidBase64(t *testing.T) {
	_, err := LoadKey("not-valid-base64!!!")
	if !errors.Is(err, domain.ErrKeyFormat) {
		t.Errorf("want ErrKeyFormat, got %v", err)
	}
}

func TestLoadKey_WrongLength(t *testing.T) {
	// 16バイトはAES-256には短すぎる
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	_, err := LoadKey(short)
	if !errors.Is(err, domain.ErrKeyFormat) {
		t.Errorf("want ErrKeyFormat, got %v", err)
	}
}

func TestLoadKey_Success(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(make([]byte, KeySize))
	key, err := LoadKey(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("want %d bytes, got %d", KeySize, len(key))
	}
}

func TestGenerateKeyString_Loadable(t *testing.T) {
	encoded, err := GenerateKeyString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, err := LoadKey(encoded)
	if err != nil {
		t.Fatalf("generated key did not load: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("want %d bytes, got %d", KeySize, len(key))
	}
}
