package users

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。IDはSQLiteの採番に任せる。
const schema = `
CREATE TABLE IF NOT EXISTS users (
    -- ユーザーの一意識別子
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    -- ユーザー名（重複不可）
    username TEXT NOT NULL UNIQUE,
    -- メールアドレス（重複不可）
    email TEXT NOT NULL UNIQUE
);
`

// initSchema はSQLiteデータベースにスキーマを適用する。
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
