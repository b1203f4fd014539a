package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"access-gate-service/internal/domain"
)

// mockIdentityRepository はテスト用のモックリポジトリ。
type mockIdentityRepository struct {
	userByPhone    *domain.User
	userByPhoneErr error
	userByID       *domain.User
	userByIDErr    error
	company        *domain.Company
	companyErr     error
	isMember       bool
	isMemberErr    error
}

func (m *mockIdentityRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return m.userByPhone, m.userByPhoneErr
}

func (m *mockIdentityRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userByID, m.userByIDErr
}

func (m *mockIdentityRepository) FindCompany(ctx context.Context, companyID string, companyType domain.CompanyType) (*domain.Company, error) {
	return m.company, m.companyErr
}

func (m *mockIdentityRepository) IsMember(ctx context.Context, userID, companyID string) (bool, error) {
	return m.isMember, m.isMemberErr
}

// mockVerifier はテスト用のパスワード検証器。
type mockVerifier struct {
	ok    bool
	calls int
}

func (m *mockVerifier) Verify(encodedHash, candidate string) bool {
	m.calls++
	return m.ok
}

// mockCipher は "tok-" プレフィックスで識別子を包む決定的なトークン暗号。
type mockCipher struct {
	encryptErr error
	decryptErr error
}

func (m *mockCipher) EncryptID(id string) (string, error) {
	if m.encryptErr != nil {
		return "", m.encryptErr
	}
	return "tok-" + id, nil
}

func (m *mockCipher) DecryptID(t string) (string, error) {
	if m.decryptErr != nil {
		return "", m.decryptErr
	}
	if !strings.HasPrefix(t, "tok-") {
		return "", domain.ErrTokenMalformed
	}
	return strings.TrimPrefix(t, "tok-"), nil
}

func activeSeed() *mockIdentityRepository {
	return &mockIdentityRepository{
		company: &domain.Company{
			ID:       "test-corp-1",
			Type:     domain.CompanyTypeCorporate,
			Name:     "Test Corp",
			IsActive: true,
		},
		userByPhone: &domain.User{
			ID:           "test-user-1",
			Phone:        "+905551111111",
			PasswordHash: "$argon2id$hash",
			CompanyIDs:   []string{"test-corp-1"},
			IsActive:     true,
		},
		isMember: true,
	}
}

func loginInput() LoginInput {
	return LoginInput{
		Phone:       "+905551111111",
		Password:    "1234",
		CompanyType: domain.CompanyTypeCorporate,
		CompanyID:   "test-corp-1",
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := activeSeed()
	verifier := &mockVerifier{ok: true}
	svc := NewAuthService(repo, verifier, &mockCipher{})

	result, err := svc.Login(context.Background(), loginInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.UserID != "test-user-1" {
		t.Errorf("want user_id test-user-1, got %s", result.UserID)
	}
	if result.CompanyID != "test-corp-1" {
		t.Errorf("want company_id test-corp-1, got %s", result.CompanyID)
	}
	if result.RedirectURL != "/tok-test-corp-1/tok-test-user-1/dashboard" {
		t.Errorf("unexpected redirect URL: %s", result.RedirectURL)
	}
}

func TestAuthService_Login_CompanyNotFound(t *testing.T) {
	repo := activeSeed()
	repo.company = nil
	svc := NewAuthService(repo, &mockVerifier{ok: true}, &mockCipher{})

	_, err := svc.Login(context.Background(), loginInput())
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("want ErrCompanyNotFound, got %v", err)
	}
}

func TestAuthService_Login_UnknownPhone(t *testing.T) {
	repo := activeSeed()
	repo.userByPhone = nil
	svc := NewAuthService(repo, &mockVerifier{ok: true}, &mockCipher{})

	_, err := svc.Login(context.Background(), loginInput())
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := activeSeed()
	svc := NewAuthService(repo, &mockVerifier{ok: false}, &mockCipher{})

	_, err := svc.Login(context.Background(), loginInput())
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NotMember(t *testing.T) {
	repo := activeSeed()
	repo.isMember = false
	verifier := &mockVerifier{ok: true}
	svc := NewAuthService(repo, verifier, &mockCipher{})

	_, err := svc.Login(context.Background(), loginInput())
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("want ErrNotMember, got %v", err)
	}
	// 所属検証はパスワード検証より先。非メンバーにはパスワードを照合しない
	if verifier.calls != 0 {
		t.Errorf("verifier should not be called, got %d calls", verifier.calls)
	}
}

func TestAuthService_Login_EncryptFailure(t *testing.T) {
	repo := activeSeed()
	cipher := &mockCipher{encryptErr: errors.New("rng exhausted")}
	svc := NewAuthService(repo, &mockVerifier{ok: true}, cipher)

	if _, err := svc.Login(context.Background(), loginInput()); err == nil {
		t.Error("want error on encrypt failure, got nil")
	}
}

func TestAuthService_VerifySession(t *testing.T) {
	cases := []struct {
		name       string
		repo       *mockIdentityRepository
		userID     string
		companyID  string
		wantValid  bool
		wantReason string
	}{
		{
			name: "valid membership",
			repo: &mockIdentityRepository{
				userByID: &domain.User{ID: "test-user-1", IsActive: true},
				company:  &domain.Company{ID: "test-corp-1", IsActive: true},
				isMember: true,
			},
			userID:    "test-user-1",
			companyID: "test-corp-1",
			wantValid: true,
		},
		{
			name:       "missing user id",
			repo:       &mockIdentityRepository{},
			userID:     "",
			companyID:  "test-corp-1",
			wantValid:  false,
			wantReason: "missing user or company id",
		},
		{
			name:       "missing company id",
			repo:       &mockIdentityRepository{},
			userID:     "test-user-1",
			companyID:  "",
			wantValid:  false,
			wantReason: "missing user or company id",
		},
		{
			name:       "unknown or inactive user",
			repo:       &mockIdentityRepository{},
			userID:     "ghost",
			companyID:  "test-corp-1",
			wantValid:  false,
			wantReason: "user not found or inactive",
		},
		{
			name: "unknown or inactive company",
			repo: &mockIdentityRepository{
				userByID: &domain.User{ID: "test-user-1", IsActive: true},
			},
			userID:     "test-user-1",
			companyID:  "ghost",
			wantValid:  false,
			wantReason: "company not found or inactive",
		},
		{
			name: "membership removed",
			repo: &mockIdentityRepository{
				userByID: &domain.User{ID: "test-user-1", IsActive: true},
				company:  &domain.Company{ID: "test-corp-1", IsActive: true},
				isMember: false,
			},
			userID:     "test-user-1",
			companyID:  "test-corp-1",
			wantValid:  false,
			wantReason: "membership not found",
		},
		{
			name: "repository failure",
			repo: &mockIdentityRepository{
				userByIDErr: errors.New("db down"),
			},
			userID:     "test-user-1",
			companyID:  "test-corp-1",
			wantValid:  false,
			wantReason: "verification failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(tc.repo, &mockVerifier{ok: true}, &mockCipher{})
			status := svc.VerifySession(context.Background(), tc.userID, tc.companyID)
			if status.Valid != tc.wantValid {
				t.Errorf("want valid=%v, got %v (reason: %s)", tc.wantValid, status.Valid, status.Reason)
			}
			if status.Reason != tc.wantReason {
				t.Errorf("want reason %q, got %q", tc.wantReason, status.Reason)
			}
		})
	}
}

func TestAuthService_ResolveAccess_Success(t *testing.T) {
	repo := activeSeed()
	svc := NewAuthService(repo, &mockVerifier{}, &mockCipher{})

	access, err := svc.ResolveAccess(context.Background(), "tok-test-corp-1", "tok-test-user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access.CompanyID != "test-corp-1" || access.UserID != "test-user-1" {
		t.Errorf("unexpected access: %+v", access)
	}
}

func TestAuthService_ResolveAccess_BadToken(t *testing.T) {
	repo := activeSeed()
	svc := NewAuthService(repo, &mockVerifier{}, &mockCipher{})

	_, err := svc.ResolveAccess(context.Background(), "garbage", "tok-test-user-1")
	if !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("want ErrTokenMalformed, got %v", err)
	}

	svcTampered := NewAuthService(repo, &mockVerifier{}, &mockCipher{decryptErr: domain.ErrTokenInvalid})
	_, err = svcTampered.ResolveAccess(context.Background(), "tok-x", "tok-y")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_ResolveAccess_NotMember(t *testing.T) {
	repo := activeSeed()
	repo.isMember = false
	svc := NewAuthService(repo, &mockVerifier{}, &mockCipher{})

	_, err := svc.ResolveAccess(context.Background(), "tok-test-corp-1", "tok-test-user-2")
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("want ErrNotMember, got %v", err)
	}
}
