// Package handler はHTTPハンドラを提供する。
package handler

import (
	"encoding/json"
	"net/http"

	"access-gate-service/pkg/httputil"
)

// Cipher は識別子トークンの暗号化・復号のインターフェース。
type Cipher interface {
	EncryptID(id string) (string, error)
	DecryptID(t string) (string, error)
}

// CryptoHandler は識別子の暗号化・復号エンドポイントを提供する。
type CryptoHandler struct {
	cipher Cipher
}

// NewCryptoHandler は新しいCryptoHandlerを生成する。
func NewCryptoHandler(cipher Cipher) *CryptoHandler {
	return &CryptoHandler{cipher: cipher}
}

// EncryptRequest は暗号化リクエストの形式。
type EncryptRequest struct {
	ID *string `json:"id"`
}

// EncryptResponse は暗号化レスポンスの形式。
type EncryptResponse struct {
	Encrypted string `json:"encrypted"`
}

// DecryptRequest は復号リクエストの形式。
type DecryptRequest struct {
	Encrypted *string `json:"encrypted"`
}

// DecryptResponse は復号レスポンスの形式。
type DecryptResponse struct {
	Decrypted string `json:"decrypted"`
}

// Encrypt は識別子を暗号化してトークンを返す。
func (h *CryptoHandler) Encrypt(w http.ResponseWriter, r *http.Request) {
	var req EncryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == nil {
		httputil.Error(w, http.StatusBadRequest, "MISSING_FIELD", "id is required")
		return
	}

	encrypted, err := h.cipher.EncryptID(*req.ID)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httputil.JSON(w, http.StatusOK, EncryptResponse{Encrypted: encrypted})
}

// Decrypt はトークンを復号して識別子を返す。
//
// 失敗はすべて同一の不透明な500で応答する。タグ不一致と形式不正を
// 区別して返すと外部の攻撃者に判別オラクルを与えるため、ここでは
// 分類しない（URLゲート側のミドルウェアとは意図的に非対称）。
func (h *CryptoHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	var req DecryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Encrypted == nil {
		httputil.Error(w, http.StatusBadRequest, "MISSING_FIELD", "encrypted is required")
		return
	}

	decrypted, err := h.cipher.DecryptID(*req.Encrypted)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httputil.JSON(w, http.StatusOK, DecryptResponse{Decrypted: decrypted})
}
