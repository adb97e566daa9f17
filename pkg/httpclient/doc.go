// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// 捕捉エージェントがリモートのレコードストアへ通知レコードを追記する
// 際や、デバイスOSブリッジからセキュア設定値を読み取る際に使用する。
// JSONリクエスト/レスポンスの送受信とユーザーIDの伝播を統一する。
package httpclient
