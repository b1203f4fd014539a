package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"access-gate-service/config"
	"access-gate-service/internal/middleware"
	"access-gate-service/pkg/httputil"
)

// NewRouter はルーターを生成する。
func NewRouter(auth *AuthHandler, crypto *CryptoHandler, resolver middleware.AccessResolver, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// ミドルウェア
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ルート定義
	r.Route("/api", func(r chi.Router) {
		r.Post("/crypto/encrypt", crypto.Encrypt)
		r.Post("/crypto/decrypt", crypto.Decrypt)
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/verify-session", auth.VerifySession)
	})

	// 暗号化セグメント付きのゲート対象リソース
	r.Route("/{company_token}/{user_token}", func(r chi.Router) {
		r.Use(middleware.URLTokenGate(resolver))
		r.Get("/dashboard", auth.Dashboard)
	})

	return otelhttp.NewHandler(r, "access-gate-service")
}
