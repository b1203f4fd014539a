// Package main はCLIツールのエントリポイント。
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"access-gate-service/internal/token"
)

const version = "1.0.0"

var (
	apiURL  string
	output  string
	timeout time.Duration
)

// HTTPクライアント
var httpClient *http.Client

func main() {
	rootCmd := &cobra.Command{
		Use:   "gatectl",
		Short: "Access Gate Service CLI",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if apiURL == "" {
				apiURL = os.Getenv("GATECTL_API_URL")
			}
			httpClient = &http.Client{Timeout: timeout}
		},
	}

	// グローバルフラグ
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API endpoint URL (or set GATECTL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "text", "Output format: text, json")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// サブコマンド登録
	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(encryptCmd())
	rootCmd.AddCommand(decryptCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd はバージョン情報を表示する。
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gatectl version %s\n", version)
		},
	}
}

// keygenCmd は新しい暗号鍵を生成してbase64で出力する。APIには接続しない。
func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new 32-byte encryption key (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := token.GenerateKeyString()
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}

// postAPI はAPIにJSONをPOSTしてレスポンス本文を返す。
func postAPI(path string, payload any, wantStatus int) ([]byte, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("--api-url is required (or set GATECTL_API_URL)")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := httpClient.Post(apiURL+path, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, handleErrorResponse(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// handleErrorResponse はエラーレスポンスを整形して返す。
func handleErrorResponse(status int, body []byte) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		return fmt.Errorf("API error (%d %s): %s", status, errResp.Code, errResp.Message)
	}
	return fmt.Errorf("API error: status %d", status)
}

// encryptCmd は識別子を暗号化する。
func encryptCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt an identifier into a URL-safe token",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := postAPI("/api/crypto/encrypt", map[string]string{"id": id}, http.StatusOK)
			if err != nil {
				return err
			}
			if output == "json" {
				fmt.Println(string(body))
				return nil
			}
			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Println(result["encrypted"])
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Identifier to encrypt (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}

// decryptCmd はトークンを復号する。
func decryptCmd() *cobra.Command {
	var encrypted string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a URL-safe token back into an identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := postAPI("/api/crypto/decrypt", map[string]string{"encrypted": encrypted}, http.StatusOK)
			if err != nil {
				return err
			}
			if output == "json" {
				fmt.Println(string(body))
				return nil
			}
			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Println(result["decrypted"])
			return nil
		},
	}
	cmd.Flags().StringVar(&encrypted, "token", "", "Token to decrypt (required)")
	cmd.MarkFlagRequired("token")
	return cmd
}

// loginCmd はログインしてリダイレクトURLを表示する。
func loginCmd() *cobra.Command {
	var phone, password, companyType, companyID string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the tokenised redirect URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := postAPI("/api/auth/login", map[string]string{
				"phone":        phone,
				"password":     password,
				"company_type": companyType,
				"company_id":   companyID,
			}, http.StatusOK)
			if err != nil {
				return err
			}
			if output == "json" {
				fmt.Println(string(body))
				return nil
			}
			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Printf("Logged in as %v @ %v\n", result["user_id"], result["company_id"])
			fmt.Printf("Redirect: %v\n", result["redirect_url"])
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&companyType, "company-type", "corporate", "Company type: corporate, catering, supplier")
	cmd.Flags().StringVar(&companyID, "company", "", "Company ID (required)")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("company")
	return cmd
}

// verifyCmd はセッションの有効性を確認する。
func verifyCmd() *cobra.Command {
	var userID, companyID string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that a (user, company) session is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := postAPI("/api/auth/verify-session", map[string]string{
				"userId":    userID,
				"companyId": companyID,
			}, http.StatusOK)
			if err != nil {
				return err
			}
			if output == "json" {
				fmt.Println(string(body))
				return nil
			}
			var result struct {
				Valid  bool   `json:"valid"`
				Reason string `json:"reason"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			if result.Valid {
				fmt.Println("valid")
				return nil
			}
			fmt.Printf("invalid: %s\n", result.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&companyID, "company", "", "Company ID (required)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("company")
	return cmd
}
