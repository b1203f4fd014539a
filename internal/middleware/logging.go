// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"time"
)

// WriteAuditLog は認証・ゲート判定の監査ログを出力する。
// 識別子は復号済みの生ID。トークンそのものはログに残さない。
func WriteAuditLog(ctx context.Context, operation, userID, companyID, result string) {
	slog.InfoContext(ctx, "gate operation completed",
		"operation", operation,
		"user_id", userID,
		"company_id", companyID,
		"result", result,
		"timestamp", time.Now().UTC().Format(time.RFC3339),
	)
}
