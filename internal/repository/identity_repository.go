// Package repository はデータアクセス層の実装を提供する。
package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"access-gate-service/internal/domain"
)

// CompanyModel はgorm用の会社モデル定義。
type CompanyModel struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Type      string    `gorm:"type:enum('corporate','catering','supplier');not null;index:idx_company_type"`
	Name      string    `gorm:"type:varchar(255);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"type:datetime(6);not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:datetime(6);not null;autoUpdateTime"`
}

// TableName はテーブル名を返す。
func (CompanyModel) TableName() string {
	return "companies"
}

// BeforeCreate はレコード作成前にUUIDを生成する。
func (c *CompanyModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// UserModel はgorm用のユーザーモデル定義。
type UserModel struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Phone        string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_users_phone"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"type:datetime(6);not null;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"type:datetime(6);not null;autoUpdateTime"`
}

// TableName はテーブル名を返す。
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate はレコード作成前にUUIDを生成する。
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// MembershipModel は(user, company)の所属関係を表す結合テーブルのモデル。
type MembershipModel struct {
	UserID    string `gorm:"type:char(36);primaryKey"`
	CompanyID string `gorm:"type:char(36);primaryKey;index:idx_membership_company"`
}

// TableName はテーブル名を返す。
func (MembershipModel) TableName() string {
	return "user_companies"
}

func (c *CompanyModel) toDomain() *domain.Company {
	return &domain.Company{
		ID:        c.ID,
		Type:      domain.CompanyType(c.Type),
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (u *UserModel) toDomain(companyIDs []string) *domain.User {
	return &domain.User{
		ID:           u.ID,
		FullName:     u.FullName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		CompanyIDs:   companyIDs,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// IdentityRepository はゲートが参照するユーザー・会社・所属関係の読み取り専用ビュー。
// レコードの作成・更新は周辺プラットフォームの責務であり、ここでは行わない。
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository は新しいIdentityRepositoryを生成する。
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// companyIDsOf はユーザーの所属会社ID一覧を取得する。
func (r *IdentityRepository) companyIDsOf(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&MembershipModel{}).
		Where("user_id = ?", userID).
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindUserByPhone は電話番号から有効なユーザーを取得する。存在しなければnilを返す。
func (r *IdentityRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("phone = ? AND is_active = ?", phone, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find user by phone",
			"operation", "find_user_by_phone",
			"error", err,
		)
		return nil, err
	}

	ids, err := r.companyIDsOf(ctx, model.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load user memberships",
			"operation", "find_user_by_phone",
			"user_id", model.ID,
			"error", err,
		)
		return nil, err
	}
	return model.toDomain(ids), nil
}

// FindUserByID はIDから有効なユーザーを取得する。存在しなければnilを返す。
func (r *IdentityRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", userID, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find user by id",
			"operation", "find_user_by_id",
			"user_id", userID,
			"error", err,
		)
		return nil, err
	}

	ids, err := r.companyIDsOf(ctx, model.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load user memberships",
			"operation", "find_user_by_id",
			"user_id", userID,
			"error", err,
		)
		return nil, err
	}
	return model.toDomain(ids), nil
}

// FindCompany はIDから有効な会社を取得する。companyTypeが空でなければ種別でも絞り込む。
// 存在しなければnilを返す。
func (r *IdentityRepository) FindCompany(ctx context.Context, companyID string, companyType domain.CompanyType) (*domain.Company, error) {
	query := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", companyID, true)
	if companyType != "" {
		query = query.Where("type = ?", string(companyType))
	}

	var model CompanyModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find company",
			"operation", "find_company",
			"company_id", companyID,
			"error", err,
		)
		return nil, err
	}
	return model.toDomain(), nil
}

// IsMember はユーザーと会社が共に有効で、所属関係が存在する場合にtrueを返す。
func (r *IdentityRepository) IsMember(ctx context.Context, userID, companyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_companies").
		Joins("JOIN users ON users.id = user_companies.user_id AND users.is_active = ?", true).
		Joins("JOIN companies ON companies.id = user_companies.company_id AND companies.is_active = ?", true).
		Where("user_companies.user_id = ? AND user_companies.company_id = ?", userID, companyID).
		Count(&count).Error
	if err != nil {
		slog.ErrorContext(ctx, "failed to check membership",
			"operation", "is_member",
			"user_id", userID,
			"company_id", companyID,
			"error", err,
		)
		return false, err
	}
	return count > 0, nil
}
