package agent

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/nao1215/notisync/pkg/httpclient"
)

// deviceBridgeTimeout はデバイスOSブリッジへのリクエストのタイムアウト。
// ブリッジはデバイスローカルで動作するため短く設定する。
const deviceBridgeTimeout = 5 * time.Second

// DeviceBridge はデバイスOSブリッジへのHTTPクライアント。
// セキュア設定レジストリの読み取りと、通知アクセス設定画面の
// 起動依頼を仲介する。
type DeviceBridge struct {
	// client はOSブリッジとの通信用HTTPクライアント。
	client *httpclient.Client
}

// NewDeviceBridge は新しいデバイスOSブリッジクライアントを生成する。
// baseURLにはOSブリッジのベースURL（例: "http://localhost:8092"）を指定する。
func NewDeviceBridge(baseURL string) *DeviceBridge {
	return &DeviceBridge{
		client: httpclient.NewWithTimeout(baseURL, deviceBridgeTimeout),
	}
}

// secureSettingResponse はセキュア設定読み取りAPIのレスポンス。
type secureSettingResponse struct {
	// Value は設定値。キーが存在しない場合は空文字列。
	Value string `json:"value"`
}

// SecureSetting はセキュア設定レジストリから指定キーの値を読み取る。
// キーが存在しない場合、OSブリッジは空文字列の値を返す。
func (d *DeviceBridge) SecureSetting(ctx context.Context, key string) (string, error) {
	var resp secureSettingResponse
	path := "/api/v1/secure-settings/" + url.PathEscape(key)
	if err := d.client.GetJSON(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("セキュア設定の読み取りに失敗: %w", err)
	}
	return resp.Value, nil
}

// OpenNotificationAccessSettings は通知アクセス設定画面への遷移をOSに依頼する。
// 依頼の送信をもって完了とみなし、ユーザーの選択結果は待たない。
func (d *DeviceBridge) OpenNotificationAccessSettings(ctx context.Context) error {
	if err := d.client.PostJSON(ctx, "/api/v1/settings/notification-access", nil, nil); err != nil {
		return fmt.Errorf("設定画面の起動依頼に失敗: %w", err)
	}
	return nil
}
