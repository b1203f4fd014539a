package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"access-gate-service/internal/domain"
)

// MigrationRepository はマイグレーション履歴を参照するリポジトリのインターフェース。
type MigrationRepository interface {
	FindAllApplied(ctx context.Context) ([]*domain.Migration, error)
	IsApplied(ctx context.Context, version string) (bool, error)
}

// MigrationService はSQLファイルベースのマイグレーション実行を提供する。
// identityテーブル群（companies, users, user_companies）のDDLを適用する。
type MigrationService struct {
	repo          MigrationRepository
	db            *gorm.DB
	migrationsDir string
}

// NewMigrationService は新しいMigrationServiceを生成する。
func NewMigrationService(repo MigrationRepository, db *gorm.DB, migrationsDir string) *MigrationService {
	return &MigrationService{
		repo:          repo,
		db:            db,
		migrationsDir: migrationsDir,
	}
}

// scanFiles はmigrationsディレクトリから {version}_{name}.sql をバージョン順に集める。
func (s *MigrationService) scanFiles() ([]*domain.Migration, error) {
	entries, err := os.ReadDir(s.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []*domain.Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: %s (expected {version}_{name}.sql)", domain.ErrInvalidMigrationFile, entry.Name())
		}

		migrations = append(migrations, &domain.Migration{
			Version:  parts[0],
			Name:     parts[1],
			FilePath: filepath.Join(s.migrationsDir, entry.Name()),
			Status:   domain.MigrationStatusPending,
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Apply は未適用マイグレーションをバージョン順に実行し、適用件数を返す。
// 各マイグレーションはトランザクション内で実行し、同じトランザクションで
// schema_migrationsに履歴を記録する。
func (s *MigrationService) Apply(ctx context.Context) (int, error) {
	all, err := s.scanFiles()
	if err != nil {
		slog.ErrorContext(ctx, "failed to scan migration files",
			"operation", "apply_migrations",
			"error", err,
		)
		return 0, err
	}

	applied := 0
	for _, migration := range all {
		done, err := s.repo.IsApplied(ctx, migration.Version)
		if err != nil {
			return applied, fmt.Errorf("checking migration status: %w", err)
		}
		if done {
			continue
		}

		if err := s.applyOne(ctx, migration); err != nil {
			slog.ErrorContext(ctx, "failed to apply migration",
				"operation", "apply_migrations",
				"version", migration.Version,
				"error", err,
			)
			return applied, fmt.Errorf("%w: version %s: %v", domain.ErrMigrationFailed, migration.Version, err)
		}
		applied++
	}
	return applied, nil
}

func (s *MigrationService) applyOne(ctx context.Context, migration *domain.Migration) error {
	sqlBytes, err := os.ReadFile(migration.FilePath)
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(sqlBytes)).Error; err != nil {
			return fmt.Errorf("executing migration SQL: %w", err)
		}
		// 履歴は同一トランザクションで記録する
		record := struct {
			Version string `gorm:"column:version;primaryKey;type:varchar(14)"`
		}{Version: migration.Version}
		if err := tx.Table("schema_migrations").Create(&record).Error; err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
}

// Status は全マイグレーションの適用状況を返す。
func (s *MigrationService) Status(ctx context.Context) ([]*domain.Migration, error) {
	all, err := s.scanFiles()
	if err != nil {
		return nil, err
	}

	appliedList, err := s.repo.FindAllApplied(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching applied migrations: %w", err)
	}

	appliedMap := make(map[string]*domain.Migration, len(appliedList))
	for _, m := range appliedList {
		appliedMap[m.Version] = m
	}

	for _, migration := range all {
		if done, ok := appliedMap[migration.Version]; ok {
			migration.Status = domain.MigrationStatusApplied
			migration.AppliedAt = done.AppliedAt
		}
	}
	return all, nil
}
