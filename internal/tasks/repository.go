package tasks

import (
	"context"
	"errors"
	"sync"
)

// Status はタスクの進行状態。
type Status string

// タスクが取りうる状態。
const (
	// StatusTodo は未着手。新規作成時は常にこの状態から始まる。
	StatusTodo Status = "todo"
	// StatusInProgress は作業中。
	StatusInProgress Status = "in_progress"
	// StatusDone は完了。
	StatusDone Status = "done"
)

// Valid は既知の状態かどうかを返す。
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task はタスクレコード。
type Task struct {
	// ID はタスクの一意識別子。
	ID int64 `json:"id"`
	// ProjectID は所属プロジェクトのID。
	ProjectID int64 `json:"project_id"`
	// Title はタスクのタイトル。
	Title string `json:"title"`
	// Description はタスクの説明。未指定の場合はnull。
	Description *string `json:"description"`
	// Status はタスクの進行状態。
	Status Status `json:"status"`
	// AssigneeID は担当者のユーザーID。未割り当ての場合はnull。
	AssigneeID *int64 `json:"assignee_id"`
}

// TaskUpdate は部分更新の入力。nilのフィールドは変更しない。
type TaskUpdate struct {
	// Title は新しいタイトル。
	Title *string
	// Description は新しい説明。
	Description *string
	// Status は新しい進行状態。
	Status *Status
	// AssigneeID は新しい担当者のユーザーID。
	AssigneeID *int64
}

// ErrNotFound は指定されたタスクが存在しないことを表す。
var ErrNotFound = errors.New("task not found")

// Repository はタスクレコードの保管層。
type Repository interface {
	// List は全タスクを返す。
	List(ctx context.Context) ([]Task, error)
	// GetByID はIDでタスクを1件取得する。存在しない場合はErrNotFound。
	GetByID(ctx context.Context, id int64) (Task, error)
	// ListByProject は指定プロジェクトに属するタスクのみを返す。
	ListByProject(ctx context.Context, projectID int64) ([]Task, error)
	// Create はタスクを作成し、採番されたIDを含むレコードを返す。
	Create(ctx context.Context, task Task) (Task, error)
	// Update は指定フィールドのみを更新し、更新後のレコードを返す。
	// 存在しない場合はErrNotFound。
	Update(ctx context.Context, id int64, update TaskUpdate) (Task, error)
	// Delete はタスクを削除する。存在しない場合はErrNotFound。
	Delete(ctx context.Context, id int64) error
}

// memoryRepository はプロセス内メモリ上のRepository実装。
// 所有権はサービスプロセスに閉じており、RWMutexで並行アクセスから保護する。
type memoryRepository struct {
	mu    sync.RWMutex
	tasks []Task
}

// NewMemoryRepository はインメモリのRepositoryを生成する。
func NewMemoryRepository() Repository {
	return &memoryRepository{tasks: make([]Task, 0)}
}

// List は全タスクのコピーを返す。
func (r *memoryRepository) List(_ context.Context) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, len(r.tasks))
	copy(tasks, r.tasks)
	return tasks, nil
}

// GetByID はIDでタスクを1件取得する。
func (r *memoryRepository) GetByID(_ context.Context, id int64) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

// ListByProject は指定プロジェクトに属するタスクのみを返す。
func (r *memoryRepository) ListByProject(_ context.Context, projectID int64) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, 0)
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// Create はタスクを作成する。IDは既存の最大ID+1で採番する。
func (r *memoryRepository) Create(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, t := range r.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	task.ID = maxID + 1
	r.tasks = append(r.tasks, task)
	return task, nil
}

// Update は指定フィールドのみを更新する。
func (r *memoryRepository) Update(_ context.Context, id int64, update TaskUpdate) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID != id {
			continue
		}
		if update.Title != nil {
			t.Title = *update.Title
		}
		if update.Description != nil {
			t.Description = update.Description
		}
		if update.Status != nil {
			t.Status = *update.Status
		}
		if update.AssigneeID != nil {
			t.AssigneeID = update.AssigneeID
		}
		r.tasks[i] = t
		return t, nil
	}
	return Task{}, ErrNotFound
}

// Delete はタスクを削除する。
func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
