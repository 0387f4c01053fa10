// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// gatewayサービスからバックエンドサービスへの集約呼び出し・書き込み転送、
// tasksやcommentsサービスからnotificationsサービスへの通知送信など、
// サービス間の通信パターンを統一する。
//
// Getは失敗原因（接続エラー、タイムアウト、エラーステータス、不正なボディ）を
// すべて「値なし」に畳み込む。ダウンストリームの劣化は欠落としてのみ観測され、
// 診断はログに委ねる。PostはForwardErrorとして転送先のステータスとボディを
// そのまま保持し、gatewayが呼び出し元へ中継できるようにする。
package httpclient
