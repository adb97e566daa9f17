package agent

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/nao1215/notisync/pkg/httpclient"
	"github.com/nao1215/notisync/pkg/notification"
)

// defaultWriteTimeout は1件の書き込みに課す上限時間。
// ハングした書き込みが無期限にゴルーチンを占有することを防ぐ。
const defaultWriteTimeout = 30 * time.Second

// WriteOutcome は非同期書き込み1件の完了結果。
type WriteOutcome struct {
	// UserID は書き込み対象のユーザーID（イベント観測時点のスナップショット）。
	UserID string
	// RecordID はシンクが採番したレコード識別子。成功時のみ設定され、診断専用。
	RecordID string
	// Err は書き込みに失敗した場合のエラー。
	Err error
}

// SyncWriter は通知レコードをリモートのレコードストアへ非同期に追記する。
// 各書き込みは独立しており、順序保証・バッチング・リトライ・再送キューの
// いずれも持たない。失敗はログに記録されるだけで、そのレコードは失われる。
type SyncWriter struct {
	// client はレコードストアとの通信用HTTPクライアント。
	client *httpclient.Client
	// writeTimeout は1件の書き込みに課す上限時間。
	writeTimeout time.Duration
	// observer は書き込み完了ごとに呼ばれる診断用コールバック。nil可。
	observer func(WriteOutcome)
}

// NewSyncWriter は新しい同期ライターを生成する。
// recordstoreURLにはレコードストアのベースURLを指定する。
func NewSyncWriter(recordstoreURL string) *SyncWriter {
	return &SyncWriter{
		client:       httpclient.New(recordstoreURL),
		writeTimeout: defaultWriteTimeout,
	}
}

// SetObserver は書き込み結果の観測コールバックを設定する。
// 捕捉経路はこの結果を待たない。リスナーがイベントを受け始める前に
// 設定すること。
func (w *SyncWriter) SetObserver(fn func(WriteOutcome)) {
	w.observer = fn
}

// appendResponse はレコードストアの追記APIのレスポンス。
type appendResponse struct {
	// ID はシンクが採番したレコード識別子。
	ID string `json:"id"`
}

// Append はレコードを対象ユーザーのコレクションへ非同期に追記する。
// 呼び出し元はゴルーチンの起動以上にブロックされない。
// 書き込み開始後にユーザーコンテキストが変わっても、進行中の
// 書き込みの宛先が変わったり取り消されたりすることはない。
func (w *SyncWriter) Append(userID string, rec *notification.Record) {
	go w.append(userID, rec)
}

// append は1件の書き込みを実行する。SyncWriter唯一の実処理。
func (w *SyncWriter) append(userID string, rec *notification.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()
	ctx = httpclient.WithUserID(ctx, userID)

	path := fmt.Sprintf("/api/v1/internal/users/%s/notifications", url.PathEscape(userID))

	var resp appendResponse
	err := w.client.PostJSON(ctx, path, rec, &resp)
	if err != nil {
		// 失敗はログに記録するのみ。リトライせず、このレコードは失われる。
		log.Printf("[SyncWriter] レコード追記エラー: user=%s package=%s: %v", userID, rec.PackageName, err)
	} else {
		log.Printf("[SyncWriter] レコードを追記しました: user=%s id=%s", userID, resp.ID)
	}

	if w.observer != nil {
		w.observer(WriteOutcome{UserID: userID, RecordID: resp.ID, Err: err})
	}
}
