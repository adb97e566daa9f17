package agent

import "sync/atomic"

// UserContext は現在サインイン中のユーザーIDを保持するプロセス共有状態。
// 書き込みはブリッジ（ホストアプリ起点、低頻度）から、読み取りは
// 捕捉リスナー（イベント起点、高頻度）から行われる。atomic.Pointerに
// より途中状態の文字列が見えることはないが、書き込みと同時に行われた
// 読み取りがどちらの値を観測するかまでは保証しない。遅れは最大でも
// イベント1件分であり、この系では許容される。
type UserContext struct {
	// current は最後に設定されたユーザーID。未設定時はnil。
	current atomic.Pointer[string]
}

// NewUserContext は未設定状態のユーザーコンテキストを生成する。
// プロセス起動時点ではユーザーは常に未設定で、再起動をまたいで
// 引き継がれることもない。
func NewUserContext() *UserContext {
	return &UserContext{}
}

// Set は現在のユーザーIDを無条件に上書きする。検証は行わず、
// 以後の読み取りに直ちに反映される。
func (u *UserContext) Set(userID string) {
	u.current.Store(&userID)
}

// Clear はユーザーIDを未設定状態に戻す（サインアウト時）。
func (u *UserContext) Clear() {
	u.current.Store(nil)
}

// Current は最後に設定されたユーザーIDを返す。未設定の場合はfalseを返す。
func (u *UserContext) Current() (string, bool) {
	p := u.current.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}
