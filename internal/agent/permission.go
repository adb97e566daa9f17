package agent

import (
	"context"
	"log"
	"strings"
)

// settingsKeyEnabledListeners は有効な通知リスナーの一覧を保持するセキュア設定キー。
// 値は「パッケージ/クラス」形式のコンポーネント識別子をコロンで連結した文字列。
const settingsKeyEnabledListeners = "enabled_notification_listeners"

// SettingsSource はデバイスOSのセキュア設定レジストリへの読み取り専用アクセス。
type SettingsSource interface {
	// SecureSetting は指定キーのセキュア設定値を返す。
	// キーが存在しない場合は空文字列を返す。
	SecureSetting(ctx context.Context, key string) (string, error)
}

// PermissionOracle は捕捉リスナーがOSに許可されているかを判定する。
// セキュア設定レジストリの読み取りのみを行い、副作用を持たない。
type PermissionOracle struct {
	// source はセキュア設定レジストリへのアクセス。
	source SettingsSource
	// packageName は自アプリのパッケージ識別子。
	packageName string
}

// NewPermissionOracle は新しい許可判定オラクルを生成する。
func NewPermissionOracle(source SettingsSource, packageName string) *PermissionOracle {
	return &PermissionOracle{
		source:      source,
		packageName: packageName,
	}
}

// IsEnabled は捕捉リスナーが通知アクセスを許可されているかを返す。
// レジストリ値が空の場合や読み取りに失敗した場合はfalseを返す
// （エラーとしては扱わない）。
func (o *PermissionOracle) IsEnabled(ctx context.Context) bool {
	flat, err := o.source.SecureSetting(ctx, settingsKeyEnabledListeners)
	if err != nil {
		log.Printf("[Permission] セキュア設定の読み取りエラー: %v", err)
		return false
	}
	return listenerEnabled(flat, o.packageName)
}

// listenerEnabled はコロン連結のコンポーネント一覧に自アプリの
// パッケージが含まれるかを返す。不正なトークンは読み飛ばして
// 走査を続ける（1件の不正が全体の判定を妨げない）。
func listenerEnabled(flat, packageName string) bool {
	if flat == "" {
		return false
	}
	for _, token := range strings.Split(flat, ":") {
		pkg, ok := parseComponent(token)
		if !ok {
			continue
		}
		if pkg == packageName {
			return true
		}
	}
	return false
}

// parseComponent は「パッケージ/クラス」形式のコンポーネント識別子から
// パッケージ部分を取り出す。スラッシュが無い、またはどちらかが空の
// トークンは不正として扱う。
func parseComponent(token string) (string, bool) {
	pkg, cls, found := strings.Cut(token, "/")
	if !found || pkg == "" || cls == "" {
		return "", false
	}
	return pkg, true
}
