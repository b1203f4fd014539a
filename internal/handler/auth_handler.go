package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"access-gate-service/internal/domain"
	"access-gate-service/internal/middleware"
	"access-gate-service/internal/usecase"
	"access-gate-service/pkg/httputil"
)

// AuthHandler はログイン・セッション検証エンドポイントを提供する。
type AuthHandler struct {
	service *usecase.AuthService
}

// NewAuthHandler は新しいAuthHandlerを生成する。
func NewAuthHandler(service *usecase.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest はログインリクエストの形式。
type LoginRequest struct {
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	CompanyType string `json:"company_type"`
	CompanyID   string `json:"company_id"`
}

// LoginResponse はログインレスポンスの形式。
type LoginResponse struct {
	UserID      string `json:"user_id"`
	CompanyID   string `json:"company_id"`
	RedirectURL string `json:"redirect_url"`
}

// VerifySessionRequest はセッション検証リクエストの形式。
type VerifySessionRequest struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
}

// VerifySessionResponse はセッション検証レスポンスの形式。
type VerifySessionResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// DashboardResponse はゲート通過後のダッシュボード応答の形式。
type DashboardResponse struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}

// Login は認証を行い、暗号化トークン入りのリダイレクトURLを返す。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "malformed request body")
		return
	}

	result, err := h.service.Login(r.Context(), usecase.LoginInput{
		Phone:       req.Phone,
		Password:    req.Password,
		CompanyType: domain.CompanyType(req.CompanyType),
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompanyNotFound):
			middleware.WriteAuditLog(r.Context(), "LOGIN", "", req.CompanyID, "FAILED")
			httputil.Error(w, http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			// 未登録・無効化・パスワード不一致は同一応答。本文からも区別できない
			middleware.WriteAuditLog(r.Context(), "LOGIN", "", req.CompanyID, "FAILED")
			httputil.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		case errors.Is(err, domain.ErrNotMember):
			middleware.WriteAuditLog(r.Context(), "LOGIN", "", req.CompanyID, "DENIED")
			httputil.Error(w, http.StatusForbidden, "NOT_A_MEMBER", "user is not a member of the company")
		default:
			middleware.WriteAuditLog(r.Context(), "LOGIN", "", req.CompanyID, "FAILED")
			httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	middleware.WriteAuditLog(r.Context(), "LOGIN", result.UserID, result.CompanyID, "SUCCESS")
	httputil.JSON(w, http.StatusOK, LoginResponse{
		UserID:      result.UserID,
		CompanyID:   result.CompanyID,
		RedirectURL: result.RedirectURL,
	})
}

// VerifySession は(userId, companyId)が有効な所属関係かどうかを返す。
// ハートビート用途のため常に200で応答する。
func (h *AuthHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	var req VerifySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.JSON(w, http.StatusOK, VerifySessionResponse{Valid: false, Reason: "malformed request body"})
		return
	}

	status := h.service.VerifySession(r.Context(), req.UserID, req.CompanyID)

	result := "FAILED"
	if status.Valid {
		result = "SUCCESS"
	}
	middleware.WriteAuditLog(r.Context(), "VERIFY_SESSION", req.UserID, req.CompanyID, result)

	httputil.JSON(w, http.StatusOK, VerifySessionResponse{Valid: status.Valid, Reason: status.Reason})
}

// Dashboard はゲートを通過したリクエストに解決済みの主体を返す。
// ログインのリダイレクト先であり、ゲート配下のビジネスハンドラの雛形でもある。
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	access, ok := middleware.AccessFrom(r.Context())
	if !ok {
		httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	httputil.JSON(w, http.StatusOK, DashboardResponse{
		UserID:    access.UserID,
		CompanyID: access.CompanyID,
	})
}
