package comments

import (
	"context"
	"sync"
)

// Comment はコメントレコード。
type Comment struct {
	// ID はコメントの一意識別子。
	ID int64 `json:"id"`
	// TaskID はコメント先タスクのID。
	TaskID int64 `json:"task_id"`
	// AuthorID はコメント作成者のユーザーID。
	AuthorID int64 `json:"author_id"`
	// Text はコメント本文。
	Text string `json:"text"`
}

// Repository はコメントレコードの保管層。
type Repository interface {
	// ListByTask は指定タスクに紐付くコメントのみを返す。
	ListByTask(ctx context.Context, taskID int64) ([]Comment, error)
	// Create はコメントを作成し、採番されたIDを含むレコードを返す。
	Create(ctx context.Context, comment Comment) (Comment, error)
}

// memoryRepository はプロセス内メモリ上のRepository実装。
// 所有権はサービスプロセスに閉じており、RWMutexで並行アクセスから保護する。
type memoryRepository struct {
	mu       sync.RWMutex
	comments []Comment
}

// NewMemoryRepository はインメモリのRepositoryを生成する。
func NewMemoryRepository() Repository {
	return &memoryRepository{comments: make([]Comment, 0)}
}

// ListByTask は指定タスクに紐付くコメントのみを返す。
func (r *memoryRepository) ListByTask(_ context.Context, taskID int64) ([]Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]Comment, 0)
	for _, c := range r.comments {
		if c.TaskID == taskID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

// Create はコメントを作成する。IDは既存の最大ID+1で採番する。
func (r *memoryRepository) Create(_ context.Context, comment Comment) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, c := range r.comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	comment.ID = maxID + 1
	r.comments = append(r.comments, comment)
	return comment, nil
}
