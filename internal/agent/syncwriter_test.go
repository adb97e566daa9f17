package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/notisync/pkg/notification"
)

// capturedAppend はテスト用シンクが受信した追記リクエスト1件の記録。
type capturedAppend struct {
	// Path はリクエストパス。
	Path string
	// UserID はX-User-IDヘッダーの値。
	UserID string
	// Record はリクエストボディ。
	Record notification.Record
}

// newTestSink は追記リクエストを記録するテスト用レコードストアを構築する。
// failingがtrueの間は500を返す。
func newTestSink(t *testing.T) (*httptest.Server, chan capturedAppend, *atomic.Bool) {
	t.Helper()

	captured := make(chan capturedAppend, 16)
	var failing atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var rec notification.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Errorf("リクエストボディのデコードに失敗: %v", err)
		}
		captured <- capturedAppend{
			Path:   r.URL.Path,
			UserID: r.Header.Get("X-User-ID"),
			Record: rec,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "rec-1"})
	}))
	t.Cleanup(srv.Close)

	return srv, captured, &failing
}

// waitOutcome は観測コールバック経由で非同期書き込み1件の完了を待つ。
func waitOutcome(t *testing.T, ch chan WriteOutcome) WriteOutcome {
	t.Helper()

	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("書き込み完了の通知がタイムアウトしました")
		return WriteOutcome{}
	}
}

func strPtr(s string) *string { return &s }

func TestSyncWriterAppend(t *testing.T) {
	t.Parallel()

	sink, captured, _ := newTestSink(t)

	writer := NewSyncWriter(sink.URL)
	outcomes := make(chan WriteOutcome, 1)
	writer.SetObserver(func(o WriteOutcome) { outcomes <- o })

	rec := &notification.Record{
		PackageName: "com.chat.app",
		Title:       strPtr("New message"),
		Text:        strPtr("Hi!"),
		PostedAt:    1700000000000,
	}
	writer.Append("alice", rec)

	outcome := waitOutcome(t, outcomes)
	if outcome.Err != nil {
		t.Fatalf("書き込みが失敗しました: %v", outcome.Err)
	}
	if outcome.UserID != "alice" {
		t.Errorf("UserID = %q, want %q", outcome.UserID, "alice")
	}
	if outcome.RecordID != "rec-1" {
		t.Errorf("RecordID = %q, want %q", outcome.RecordID, "rec-1")
	}

	got := <-captured
	if got.Path != "/api/v1/internal/users/alice/notifications" {
		t.Errorf("リクエストパスが不正です: %s", got.Path)
	}
	if got.UserID != "alice" {
		t.Errorf("X-User-IDヘッダーが不正です: %s", got.UserID)
	}
	if got.Record.PackageName != "com.chat.app" {
		t.Errorf("PackageName = %q, want %q", got.Record.PackageName, "com.chat.app")
	}
	if got.Record.Title == nil || *got.Record.Title != "New message" {
		t.Errorf("Titleが一致しません: %v", got.Record.Title)
	}
	if got.Record.Text == nil || *got.Record.Text != "Hi!" {
		t.Errorf("Textが一致しません: %v", got.Record.Text)
	}
	if got.Record.PostedAt != 1700000000000 {
		t.Errorf("PostedAt = %d, want %d", got.Record.PostedAt, 1700000000000)
	}
}

// TestSyncWriterAppendFailure は1件の書き込み失敗が後続の書き込みを
// 妨げないことを検証する。
func TestSyncWriterAppendFailure(t *testing.T) {
	t.Parallel()

	sink, captured, failing := newTestSink(t)

	writer := NewSyncWriter(sink.URL)
	outcomes := make(chan WriteOutcome, 2)
	writer.SetObserver(func(o WriteOutcome) { outcomes <- o })

	rec := &notification.Record{PackageName: "com.chat.app", PostedAt: 1}

	failing.Store(true)
	writer.Append("alice", rec)
	if outcome := waitOutcome(t, outcomes); outcome.Err == nil {
		t.Error("シンクが500を返しているのに書き込みが成功扱いです")
	}

	// 失敗後も次の書き込みは通常どおり処理される
	failing.Store(false)
	writer.Append("alice", rec)
	if outcome := waitOutcome(t, outcomes); outcome.Err != nil {
		t.Errorf("失敗の後続の書き込みが失敗しました: %v", outcome.Err)
	}
	if got := <-captured; got.Path != "/api/v1/internal/users/alice/notifications" {
		t.Errorf("リクエストパスが不正です: %s", got.Path)
	}
}

// TestSyncWriterPathEscaping はユーザーIDがパスとして安全にエスケープ
// されることを検証する。
func TestSyncWriterPathEscaping(t *testing.T) {
	t.Parallel()

	sink, captured, _ := newTestSink(t)

	writer := NewSyncWriter(sink.URL)
	outcomes := make(chan WriteOutcome, 1)
	writer.SetObserver(func(o WriteOutcome) { outcomes <- o })

	writer.Append("user/with/slash", &notification.Record{PackageName: "com.chat.app", PostedAt: 1})
	waitOutcome(t, outcomes)

	got := <-captured
	if got.UserID != "user/with/slash" {
		t.Errorf("X-User-IDヘッダーが不正です: %s", got.UserID)
	}
}
