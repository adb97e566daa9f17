package notification

// Lifecycle は通知イベントの種類を表す。
type Lifecycle string

const (
	// LifecyclePosted は通知がデバイスに掲示されたことを表す。
	LifecyclePosted Lifecycle = "posted"
	// LifecycleRemoved は通知がデバイスから除去されたことを表す。
	LifecycleRemoved Lifecycle = "removed"
)

// Event はOS通知ブリッジから届く生のライフサイクルイベントを表す。
// postedとremovedの2種類があり、永続化につながるのはpostedのみ。
type Event struct {
	// Lifecycle はイベントの種類（posted / removed）。
	Lifecycle Lifecycle `json:"lifecycle"`
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string `json:"package_name"`
	// Title は通知のタイトル。通知によっては存在しない。
	Title *string `json:"title"`
	// Text は通知の本文。最初に得られたテキストフィールドを
	// プレーン文字列化したもの。存在しない場合もある。
	Text *string `json:"text"`
	// PostTime は通知の掲示時刻（エポックからのミリ秒）。
	PostTime int64 `json:"post_time"`
	// Key はOS内部の通知ハンドル。診断ログ専用で永続化しない。
	Key string `json:"key,omitempty"`
}

// HasContent はイベントから抽出可能な内容があるかを返す。
// パッケージ識別子を持たないイベントは不正とみなして破棄する。
func (e *Event) HasContent() bool {
	return e.PackageName != ""
}

// Record はリモートのレコードストアに追記する正規化済み通知レコード。
// postedイベントからのみ生成され、生成後は変更も削除もされない。
type Record struct {
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string `json:"package_name"`
	// Title は通知のタイトル。存在しない場合はnull。
	Title *string `json:"title"`
	// Text は通知の本文。存在しない場合はnull。
	Text *string `json:"text"`
	// PostedAt は通知の掲示時刻（エポックからのミリ秒）。
	PostedAt int64 `json:"posted_at"`
}

// NewRecord はpostedイベントからレコードを生成する。
// removedイベントや内容のないイベントからは生成できない。
func NewRecord(e *Event) (*Record, bool) {
	if e.Lifecycle != LifecyclePosted || !e.HasContent() {
		return nil, false
	}
	return &Record{
		PackageName: e.PackageName,
		Title:       e.Title,
		Text:        e.Text,
		PostedAt:    e.PostTime,
	}, true
}
