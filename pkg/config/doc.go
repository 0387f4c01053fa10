// Package config は環境変数ベースの設定読み込みを提供する。
//
// 各サービスは自身の設定構造体とデフォルト値を定義し、Loadで
// 環境変数を上書き適用する。docker-compose環境では環境変数、
// ローカル実行時はデフォルト値がそのまま使われる。
package config
