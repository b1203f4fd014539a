package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"access-gate-service/config"
	"access-gate-service/internal/infra"
	"access-gate-service/internal/repository"
)

// seedCmd は開発・検証用の会社とユーザーを直接DBに投入する。
// 本番の登録フローはプラットフォーム本体にあり、ここでは扱わない。
func seedCmd() *cobra.Command {
	var (
		phone       string
		password    string
		fullName    string
		companyName string
		companyType string
		companyID   string
		userID      string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo company and user for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DB_URL environment variable is required")
			}
			db, err := infra.NewDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			hash, err := infra.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}

			if companyID == "" {
				companyID = uuid.New().String()
			}
			if userID == "" {
				userID = uuid.New().String()
			}

			err = db.Transaction(func(tx *gorm.DB) error {
				company := &repository.CompanyModel{
					ID:       companyID,
					Type:     companyType,
					Name:     companyName,
					IsActive: true,
				}
				if err := tx.Create(company).Error; err != nil {
					return fmt.Errorf("creating company: %w", err)
				}

				user := &repository.UserModel{
					ID:           userID,
					FullName:     fullName,
					Phone:        phone,
					PasswordHash: hash,
					IsActive:     true,
				}
				if err := tx.Create(user).Error; err != nil {
					return fmt.Errorf("creating user: %w", err)
				}

				membership := &repository.MembershipModel{
					UserID:    user.ID,
					CompanyID: company.ID,
				}
				if err := tx.Create(membership).Error; err != nil {
					return fmt.Errorf("creating membership: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("Seeded company %s (%s) and user %s (%s)\n", companyID, companyType, userID, phone)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "User phone number (required)")
	cmd.Flags().StringVar(&password, "password", "", "User password (required)")
	cmd.Flags().StringVar(&fullName, "name", "Demo User", "User full name")
	cmd.Flags().StringVar(&companyName, "company-name", "Demo Company", "Company name")
	cmd.Flags().StringVar(&companyType, "company-type", "corporate", "Company type: corporate, catering, supplier")
	cmd.Flags().StringVar(&companyID, "company-id", "", "Company ID (generated if empty)")
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (generated if empty)")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	return cmd
}
