package projects

import (
	"context"
	"errors"
	"sync"
)

// Project はプロジェクトレコード。
type Project struct {
	// ID はプロジェクトの一意識別子。
	ID int64 `json:"id"`
	// Name はプロジェクト名。
	Name string `json:"name"`
	// Description はプロジェクトの説明。未指定の場合はnull。
	Description *string `json:"description"`
	// OwnerID はプロジェクト所有者のユーザーID。
	OwnerID int64 `json:"owner_id"`
}

// ErrNotFound は指定されたプロジェクトが存在しないことを表す。
var ErrNotFound = errors.New("project not found")

// Repository はプロジェクトレコードの保管層。
type Repository interface {
	// List は全プロジェクトを返す。
	List(ctx context.Context) ([]Project, error)
	// GetByID はIDでプロジェクトを1件取得する。存在しない場合はErrNotFound。
	GetByID(ctx context.Context, id int64) (Project, error)
	// Create はプロジェクトを作成し、採番されたIDを含むレコードを返す。
	Create(ctx context.Context, project Project) (Project, error)
	// Delete はプロジェクトを削除する。存在しない場合はErrNotFound。
	Delete(ctx context.Context, id int64) error
}

// memoryRepository はプロセス内メモリ上のRepository実装。
// 所有権はサービスプロセスに閉じており、RWMutexで並行アクセスから保護する。
type memoryRepository struct {
	mu       sync.RWMutex
	projects []Project
}

// NewMemoryRepository はインメモリのRepositoryを生成する。
func NewMemoryRepository() Repository {
	return &memoryRepository{projects: make([]Project, 0)}
}

// List は全プロジェクトのコピーを返す。
func (r *memoryRepository) List(_ context.Context) ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]Project, len(r.projects))
	copy(projects, r.projects)
	return projects, nil
}

// GetByID はIDでプロジェクトを1件取得する。
func (r *memoryRepository) GetByID(_ context.Context, id int64) (Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

// Create はプロジェクトを作成する。IDは既存の最大ID+1で採番する。
func (r *memoryRepository) Create(_ context.Context, project Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, p := range r.projects {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	project.ID = maxID + 1
	r.projects = append(r.projects, project)
	return project, nil
}

// Delete はプロジェクトを削除する。
func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.projects {
		if p.ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
