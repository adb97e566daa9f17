package agent

import (
	"log"

	"github.com/nao1215/notisync/pkg/notification"
)

// CaptureListener はOS通知ブリッジからのライフサイクルイベントを受け取り、
// postedイベントだけを同期ライターへ転送する常駐コンポーネント。
// サーバー起動時に1度だけ構築され、稼働中はイベントを処理し続ける。
// 停止時に処理待ちイベントのドレインは行わず、進行中の書き込みは
// 完了するか失敗するかのどちらかに任せる。
type CaptureListener struct {
	// users は現在のユーザーIDを保持するコンテキスト。
	users *UserContext
	// writer はレコードストアへの非同期ライター。
	writer *SyncWriter
}

// NewCaptureListener は新しい捕捉リスナーを生成する。
func NewCaptureListener(users *UserContext, writer *SyncWriter) *CaptureListener {
	return &CaptureListener{
		users:  users,
		writer: writer,
	}
}

// HandleEvent は通知ライフサイクルイベントを1件処理する。
// 1件のイベントの失敗はそのイベントの破棄にとどまり、
// リスナー自体が停止したり次のイベントの処理を妨げたりすることはない。
func (l *CaptureListener) HandleEvent(e *notification.Event) {
	switch e.Lifecycle {
	case notification.LifecyclePosted:
		l.handlePosted(e)
	case notification.LifecycleRemoved:
		// removedは診断ログのみ。対応するリモートレコードの削除は
		// 行わない（意図的な非対応であり、実装漏れではない）。
		log.Printf("[Listener] 通知が除去されました: package=%s key=%s", e.PackageName, e.Key)
	default:
		log.Printf("[Listener] 未知のライフサイクル種別を破棄: %q", e.Lifecycle)
	}
}

// handlePosted はpostedイベントを処理する。
func (l *CaptureListener) handlePosted(e *notification.Event) {
	log.Printf("[Listener] 通知が掲示されました: package=%s", e.PackageName)

	// 観測時点のユーザーIDをスナップショットする。以後コンテキストが
	// 変わっても、このイベントに起因する書き込みの宛先は変わらない。
	userID, ok := l.users.Current()
	if !ok {
		// ユーザー未設定は異常ではなく定常状態。イベントは静かに破棄する。
		log.Printf("[Listener] ユーザー未設定のため同期をスキップ: package=%s", e.PackageName)
		return
	}

	rec, ok := notification.NewRecord(e)
	if !ok {
		// 抽出可能な内容が無いイベントは破棄する
		log.Printf("[Listener] 内容の無い通知を破棄: key=%s", e.Key)
		return
	}

	// 実際の書き込みは非同期。リスナーはエンキュー以上に待たない。
	l.writer.Append(userID, rec)
}
