// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として
// 機能する。Bearerトークンによる認証、複数バックエンドへの並行呼び出しと
// 部分的な失敗を許容する集約、書き込みリクエストの転送を担当する。
//
// バックエンドの劣化は集約レスポンス内のデータとして表現される。
// 個々のサービスが落ちていても /health と /summary は常に200を返す。
package gateway
