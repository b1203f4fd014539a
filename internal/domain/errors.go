package domain

import "errors"

var (
	// ErrKeyMissing は暗号鍵が設定されていない場合のエラー。
	ErrKeyMissing = errors.New("encryption key is not configured")

	// ErrKeyFormat は暗号鍵が32バイトのbase64値でない場合のエラー。
	ErrKeyFormat = errors.New("encryption key must be 32 bytes of base64")

	// ErrTokenMalformed はトークンの形式が不正な場合のエラー（base64不正・短すぎる・UTF-8/JSON不正）。
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenInvalid は認証タグの検証に失敗した場合のエラー（改ざんまたは鍵違い）。
	ErrTokenInvalid = errors.New("token authentication failed")

	// ErrCompanyNotFound は指定された会社が存在しないか無効な場合のエラー。
	ErrCompanyNotFound = errors.New("company not found")

	// ErrInvalidCredentials は電話番号またはパスワードが一致しない場合のエラー。
	// ユーザー列挙を防ぐため、未登録・無効化・パスワード不一致を区別しない。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotMember はユーザーが対象会社のメンバーでない場合のエラー。
	ErrNotMember = errors.New("user is not a member of the company")

	// ErrMigrationFailed はマイグレーション実行時のエラー。
	ErrMigrationFailed = errors.New("migration failed")

	// ErrInvalidMigrationFile はマイグレーションファイルのフォーマットが不正な場合のエラー。
	ErrInvalidMigrationFile = errors.New("invalid migration file")
)
