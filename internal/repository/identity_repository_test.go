package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"access-gate-service/internal/domain"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを作成する。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// 本番スキーマのSQLite版（ENUM→TEXT変換）
	sql := `
		CREATE TABLE companies (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			phone TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE user_companies (
			user_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			PRIMARY KEY (user_id, company_id)
		);
	`
	if err := db.Exec(sql).Error; err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

func seedCompany(t *testing.T, db *gorm.DB, id, companyType string, active bool) {
	t.Helper()
	err := db.Exec("INSERT INTO companies (id, type, name, is_active) VALUES (?, ?, ?, ?)",
		id, companyType, "company "+id, active).Error
	if err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, id, phone string, active bool, companyIDs ...string) {
	t.Helper()
	err := db.Exec("INSERT INTO users (id, full_name, phone, password_hash, is_active) VALUES (?, ?, ?, ?, ?)",
		id, "user "+id, phone, "$argon2id$hash", active).Error
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	for _, cid := range companyIDs {
		if err := db.Exec("INSERT INTO user_companies (user_id, company_id) VALUES (?, ?)", id, cid).Error; err != nil {
			t.Fatalf("failed to seed membership: %v", err)
		}
	}
}

func TestIdentityRepository_FindUserByPhone(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewIdentityRepository(db)

	seedCompany(t, db, "test-corp-1", "corporate", true)
	seedCompany(t, db, "test-corp-2", "catering", true)
	seedUser(t, db, "test-user-1", "+905551111111", true, "test-corp-1", "test-corp-2")
	seedUser(t, db, "test-user-2", "+905552222222", false, "test-corp-1")

	user, err := repo.FindUserByPhone(ctx, "+905551111111")
	if err != nil {
		t.Fatalf("FindUserByPhone failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "test-user-1" {
		t.Errorf("want test-user-1, got %s", user.ID)
	}
	if len(user.CompanyIDs) != 2 {
		t.Errorf("want 2 memberships, got %d", len(user.CompanyIDs))
	}

	// 無効化済みユーザーは見つからない
	user, err = repo.FindUserByPhone(ctx, "+905552222222")
	if err != nil {
		t.Fatalf("FindUserByPhone failed: %v", err)
	}
	if user != nil {
		t.Error("inactive user should not be returned")
	}

	// 未登録の電話番号
	user, err = repo.FindUserByPhone(ctx, "+905559999999")
	if err != nil {
		t.Fatalf("FindUserByPhone failed: %v", err)
	}
	if user != nil {
		t.Error("unknown phone should return nil")
	}
}

func TestIdentityRepository_FindUserByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewIdentityRepository(db)

	seedCompany(t, db, "test-corp-1", "corporate", true)
	seedUser(t, db, "test-user-1", "+905551111111", true, "test-corp-1")
	seedUser(t, db, "test-user-2", "+905552222222", false)

	user, err := repo.FindUserByID(ctx, "test-user-1")
	if err != nil {
		t.Fatalf("FindUserByID failed: %v", err)
	}
	if user == nil || user.Phone != "+905551111111" {
		t.Errorf("unexpected user: %+v", user)
	}

	user, err = repo.FindUserByID(ctx, "test-user-2")
	if err != nil {
		t.Fatalf("FindUserByID failed: %v", err)
	}
	if user != nil {
		t.Error("inactive user should not be returned")
	}
}

func TestIdentityRepository_FindCompany(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewIdentityRepository(db)

	seedCompany(t, db, "test-corp-1", "corporate", true)
	seedCompany(t, db, "test-corp-2", "catering", false)

	// 種別フィルタなし
	company, err := repo.FindCompany(ctx, "test-corp-1", "")
	if err != nil {
		t.Fatalf("FindCompany failed: %v", err)
	}
	if company == nil || company.Type != domain.CompanyTypeCorporate {
		t.Errorf("unexpected company: %+v", company)
	}

	// 種別フィルタ一致
	company, err = repo.FindCompany(ctx, "test-corp-1", domain.CompanyTypeCorporate)
	if err != nil {
		t.Fatalf("FindCompany failed: %v", err)
	}
	if company == nil {
		t.Error("expected company with matching type")
	}

	// 種別フィルタ不一致
	company, err = repo.FindCompany(ctx, "test-corp-1", domain.CompanyTypeSupplier)
	if err != nil {
		t.Fatalf("FindCompany failed: %v", err)
	}
	if company != nil {
		t.Error("type mismatch should return nil")
	}

	// 無効化済みの会社
	company, err = repo.FindCompany(ctx, "test-corp-2", "")
	if err != nil {
		t.Fatalf("FindCompany failed: %v", err)
	}
	if company != nil {
		t.Error("inactive company should not be returned")
	}
}

func TestIdentityRepository_IsMember(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewIdentityRepository(db)

	seedCompany(t, db, "test-corp-1", "corporate", true)
	seedCompany(t, db, "test-corp-2", "catering", true)
	seedCompany(t, db, "inactive-corp", "supplier", false)
	seedUser(t, db, "test-user-1", "+905551111111", true, "test-corp-1", "inactive-corp")
	seedUser(t, db, "inactive-user", "+905552222222", false, "test-corp-1")

	cases := []struct {
		name      string
		userID    string
		companyID string
		want      bool
	}{
		{"membership holds", "test-user-1", "test-corp-1", true},
		{"no membership row", "test-user-1", "test-corp-2", false},
		{"company inactive", "test-user-1", "inactive-corp", false},
		{"user inactive", "inactive-user", "test-corp-1", false},
		{"unknown user", "ghost", "test-corp-1", false},
	}
	for _, tc := range cases {
		got, err := repo.IsMember(ctx, tc.userID, tc.companyID)
		if err != nil {
			t.Fatalf("%s: IsMember failed: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}
