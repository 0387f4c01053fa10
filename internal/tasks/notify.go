package tasks

import (
	"context"
	"log"

	"github.com/nao1215/taskhub/pkg/httpclient"
)

// notifyRequest はnotificationsサービスへの通知リクエストのJSON構造。
type notifyRequest struct {
	// UserID は通知先ユーザーのID。
	UserID int64 `json:"user_id"`
	// Message は通知メッセージ。
	Message string `json:"message"`
}

// notify はnotificationsサービスへ通知を送信する。
// レスポンス確定後に別ゴルーチンから呼び出されるため、リクエストの
// コンテキストには紐付けない。失敗はログに残すのみで伝播しない。
func (s *Server) notify(userID int64, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), httpclient.DefaultTimeout)
	defer cancel()

	if _, ferr := s.notifyClient.PostJSON(ctx, s.notificationsURL+"/notify", notifyRequest{
		UserID:  userID,
		Message: message,
	}); ferr != nil {
		log.Printf("通知の送信に失敗: %v", ferr)
		return
	}
	log.Printf("ユーザー %d へ通知を送信しました", userID)
}
