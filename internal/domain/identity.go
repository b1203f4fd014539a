// Package domain はドメインモデルとビジネスルールを定義する。
package domain

import "time"

// CompanyType は会社の種別を表す。
type CompanyType string

const (
	// CompanyTypeCorporate は法人（発注側）を表す。
	CompanyTypeCorporate CompanyType = "corporate"
	// CompanyTypeCatering はケータリング業者を表す。
	CompanyTypeCatering CompanyType = "catering"
	// CompanyTypeSupplier は食材サプライヤーを表す。
	CompanyTypeSupplier CompanyType = "supplier"
)

// Valid は既知の会社種別かどうかを返す。
func (t CompanyType) Valid() bool {
	switch t {
	case CompanyTypeCorporate, CompanyTypeCatering, CompanyTypeSupplier:
		return true
	}
	return false
}

// Company は会社エンティティを表す。
type Company struct {
	ID        string
	Type      CompanyType
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User はユーザーエンティティを表す。PasswordHashはargon2idエンコード文字列。
type User struct {
	ID           string
	FullName     string
	Phone        string
	PasswordHash string
	CompanyIDs   []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Access はURLトークンの解決とメンバーシップ検証を通過したリクエストの主体を表す。
type Access struct {
	UserID    string
	CompanyID string
}

// LoginResult はログイン成功時の応答を表す。
// RedirectURLは暗号化済みトークンを埋め込んだダッシュボードへのパス。
type LoginResult struct {
	UserID      string
	CompanyID   string
	RedirectURL string
}

// SessionStatus はセッション検証の結果を表す。
// Validがfalseの場合、Reasonに短い理由が入る。
type SessionStatus struct {
	Valid  bool
	Reason string
}
