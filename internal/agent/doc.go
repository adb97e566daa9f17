// Package agent は捕捉エージェントサービスの内部実装を提供する。
//
// デバイス上の通知ライフサイクルイベント（posted / removed）を
// OS通知ブリッジから受け取り、サインイン中のユーザーが存在する場合に
// 限り、正規化したレコードをリモートのレコードストアへ非同期に追記する。
//
// 主な構成要素:
//   - CaptureListener: イベントの受領と振り分け（postedのみが永続化につながる）
//   - UserContext: 現在のユーザーIDを保持するプロセス共有状態
//   - SyncWriter: レコードストアへの非同期追記（失敗はログのみ、リトライなし）
//   - PermissionOracle: OSの通知アクセス許可状態の判定
//   - ブリッジ: ホストアプリ向けのコマンドディスパッチャ
package agent
