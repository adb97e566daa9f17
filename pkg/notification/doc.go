// Package notification は通知ライフサイクルイベントと同期レコードの型を提供する。
//
// OS通知ブリッジから届くイベント（posted / removed）と、リモートの
// レコードストアに永続化する正規化済みレコードを定義する。
// イベントは1回のコールバック呼び出しの間だけ有効な一時データであり、
// レコードはpostedイベントからのみ生成される不変データである。
package notification
