// Package users はユーザーサービスの内部実装を提供する。
//
// ユーザーレコードをSQLiteに保持し、一覧・取得・作成・削除のAPIを公開する。
// gatewayサービスの /summary と /me はこのサービスのコレクションを参照する。
package users
