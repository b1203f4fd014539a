package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"access-gate-service/internal/domain"
	"access-gate-service/pkg/httputil"
)

type contextKey string

const accessContextKey contextKey = "access"

// AccessResolver はURLトークンの解決と所属検証のインターフェース。
type AccessResolver interface {
	ResolveAccess(ctx context.Context, companyToken, userToken string) (*domain.Access, error)
}

// AccessFrom はリクエストコンテキストから検証済みの主体を取り出す。
func AccessFrom(ctx context.Context) (*domain.Access, bool) {
	access, ok := ctx.Value(accessContextKey).(*domain.Access)
	return access, ok
}

// URLTokenGate は /{company_token}/{user_token}/... 形式のパスを解決する
// ミドルウェアを返す。両セグメントを復号し、所属関係を検証したうえで
// 解決済みの(company, user)をコンテキストに載せる。
//
// 復号成功はアクセス許可ではない。許可は所属検証が与える。
func URLTokenGate(resolver AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			companyToken := chi.URLParam(r, "company_token")
			userToken := chi.URLParam(r, "user_token")

			access, err := resolver.ResolveAccess(r.Context(), companyToken, userToken)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed):
					// クライアントがURLを制御しているため、不正なトークンは400で知らせる
					WriteAuditLog(r.Context(), "RESOLVE_URL_TOKENS", "", "", "FAILED")
					httputil.Error(w, http.StatusBadRequest, "INVALID_TOKEN", "invalid token in URL")
				case errors.Is(err, domain.ErrNotMember):
					WriteAuditLog(r.Context(), "RESOLVE_URL_TOKENS", "", "", "DENIED")
					httputil.Error(w, http.StatusForbidden, "NOT_A_MEMBER", "user is not a member of the company")
				default:
					WriteAuditLog(r.Context(), "RESOLVE_URL_TOKENS", "", "", "FAILED")
					httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
				return
			}

			WriteAuditLog(r.Context(), "RESOLVE_URL_TOKENS", access.UserID, access.CompanyID, "SUCCESS")
			ctx := context.WithValue(r.Context(), accessContextKey, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
