package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User はユーザーレコード。
type User struct {
	// ID はユーザーの一意識別子。
	ID int64 `json:"id"`
	// Username はユーザー名。
	Username string `json:"username"`
	// Email はメールアドレス。
	Email string `json:"email"`
}

// リポジトリが返す番兵エラー。ハンドラがHTTPステータスへ変換する。
var (
	// ErrNotFound は指定されたユーザーが存在しないことを表す。
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate はユーザー名またはメールアドレスの重複を表す。
	ErrDuplicate = errors.New("user with same username or email already exists")
)

// Repository はユーザーレコードの保管層。
// モジュールレベルの共有状態ではなく、サービスプロセスに所有権が閉じた
// 明示的な構造体として実装する。
type Repository interface {
	// List は全ユーザーをID昇順で返す。
	List(ctx context.Context) ([]User, error)
	// GetByID はIDでユーザーを1件取得する。存在しない場合はErrNotFound。
	GetByID(ctx context.Context, id int64) (User, error)
	// Create はユーザーを作成し、採番されたIDを含むレコードを返す。
	// ユーザー名またはメールアドレスが重複する場合はErrDuplicate。
	Create(ctx context.Context, username, email string) (User, error)
	// Delete はユーザーを削除する。存在しない場合はErrNotFound。
	Delete(ctx context.Context, id int64) error
}

// sqliteRepository はSQLiteバックエンドのRepository実装。
type sqliteRepository struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewSQLiteRepository はSQLiteバックエンドのRepositoryを生成する。
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

// List は全ユーザーをID昇順で返す。
func (r *sqliteRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, email FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("ユーザー行の読み取りに失敗: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ユーザー一覧の走査に失敗: %w", err)
	}
	return users, nil
}

// GetByID はIDでユーザーを1件取得する。
func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}

// Create はユーザーを作成する。ユーザー名とメールアドレスの重複を拒否する。
func (r *sqliteRepository) Create(ctx context.Context, username, email string) (User, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email,
	).Scan(&count); err != nil {
		return User{}, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	if count > 0 {
		return User{}, ErrDuplicate
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email) VALUES (?, ?)", username, email,
	)
	if err != nil {
		return User{}, fmt.Errorf("ユーザーの作成に失敗: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("採番されたIDの取得に失敗: %w", err)
	}
	return User{ID: id, Username: username, Email: email}, nil
}

// Delete はユーザーを削除する。
func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("ユーザーの削除に失敗: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
