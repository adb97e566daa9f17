// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// レコードストアの閲覧APIを保護するJWT認証トークンの検証、
// パニックリカバリ、ホストアプリのフロントエンド向けCORS設定など、
// エージェントとレコードストアの両サービスで共通して使用する。
package middleware
