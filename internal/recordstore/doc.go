// Package recordstore はレコードストアサービスの内部実装を提供する。
//
// ユーザーごとの通知レコードを永続化するリモートシンク。
// レコードは users/{userId}/notifications 配下の追記専用コレクションとして
// 管理され、識別子はシンク側がUUIDで採番する。更新・削除のパスは持たない
// （removedイベントの照合は意図的な非対応）。
//
// 主な機能:
//   - 通知レコードの追記（エージェントの同期ライターから呼ばれる内部API）
//   - 認証済みユーザーによるレコード一覧・件数の取得
package recordstore
