// Package usecase はアプリケーションのユースケースを実装する。
package usecase

import (
	"context"
	"fmt"

	"access-gate-service/internal/domain"
)

// IdentityRepository はゲートが参照するデータアクセスのインターフェース。
type IdentityRepository interface {
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindCompany(ctx context.Context, companyID string, companyType domain.CompanyType) (*domain.Company, error)
	IsMember(ctx context.Context, userID, companyID string) (bool, error)
}

// PasswordVerifier はパスワード照合のインターフェース。検証不能な場合はfalseを返す。
type PasswordVerifier interface {
	Verify(encodedHash, candidate string) bool
}

// TokenCipher は識別子トークンの暗号化・復号のインターフェース。
type TokenCipher interface {
	EncryptID(id string) (string, error)
	DecryptID(t string) (string, error)
}

// LoginInput はログイン要求を表す。
type LoginInput struct {
	Phone       string
	Password    string
	CompanyType domain.CompanyType
	CompanyID   string
}

// AuthService はログイン・セッション検証・URLトークン解決のビジネスロジックを提供する。
type AuthService struct {
	repo     IdentityRepository
	verifier PasswordVerifier
	cipher   TokenCipher
}

// NewAuthService は新しいAuthServiceを生成する。
func NewAuthService(repo IdentityRepository, verifier PasswordVerifier, cipher TokenCipher) *AuthService {
	return &AuthService{
		repo:     repo,
		verifier: verifier,
		cipher:   cipher,
	}
}

// Login は認証を行い、暗号化トークンを埋め込んだリダイレクトURLを返す。
//
// 検証は 会社 → ユーザー → 所属 → パスワード の順で行う。未登録の電話番号と
// パスワード不一致が同じErrInvalidCredentialsになるため、応答から
// ユーザーの存在を推測できない。この順序は変更しないこと。
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.LoginResult, error) {
	company, err := s.repo.FindCompany(ctx, in.CompanyID, in.CompanyType)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	user, err := s.repo.FindUserByPhone(ctx, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	member, err := s.repo.IsMember(ctx, user.ID, company.ID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	if !s.verifier.Verify(user.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	companyToken, err := s.cipher.EncryptID(company.ID)
	if err != nil {
		return nil, fmt.Errorf("encrypting company id: %w", err)
	}
	userToken, err := s.cipher.EncryptID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("encrypting user id: %w", err)
	}

	return &domain.LoginResult{
		UserID:      user.ID,
		CompanyID:   company.ID,
		RedirectURL: "/" + companyToken + "/" + userToken + "/dashboard",
	}, nil
}

// VerifySession は(userID, companyID)が有効な所属関係かどうかを判定する。
// ハートビート用途のため、欠落・未知・無効のいずれでもエラーにはせず
// 理由付きのValid=falseを返す。
func (s *AuthService) VerifySession(ctx context.Context, userID, companyID string) *domain.SessionStatus {
	if userID == "" || companyID == "" {
		return &domain.SessionStatus{Valid: false, Reason: "missing user or company id"}
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return &domain.SessionStatus{Valid: false, Reason: "verification failed"}
	}
	if user == nil {
		return &domain.SessionStatus{Valid: false, Reason: "user not found or inactive"}
	}

	company, err := s.repo.FindCompany(ctx, companyID, "")
	if err != nil {
		return &domain.SessionStatus{Valid: false, Reason: "verification failed"}
	}
	if company == nil {
		return &domain.SessionStatus{Valid: false, Reason: "company not found or inactive"}
	}

	member, err := s.repo.IsMember(ctx, userID, companyID)
	if err != nil {
		return &domain.SessionStatus{Valid: false, Reason: "verification failed"}
	}
	if !member {
		return &domain.SessionStatus{Valid: false, Reason: "membership not found"}
	}

	return &domain.SessionStatus{Valid: true}
}

// ResolveAccess はURLの暗号化セグメントを復号し、所属関係を検証して主体を返す。
//
// 復号に成功しただけではアクセスを許可しない。トークンは「かつて鍵を知る誰かが
// 生成した」ことしか証明しないため、アクセス権は所属検証で与える。
func (s *AuthService) ResolveAccess(ctx context.Context, companyToken, userToken string) (*domain.Access, error) {
	companyID, err := s.cipher.DecryptID(companyToken)
	if err != nil {
		return nil, err
	}
	userID, err := s.cipher.DecryptID(userToken)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.IsMember(ctx, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	return &domain.Access{UserID: userID, CompanyID: companyID}, nil
}
