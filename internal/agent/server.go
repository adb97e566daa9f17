package agent

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/notisync/pkg/middleware"
	"github.com/nao1215/notisync/pkg/notification"
)

// Server は捕捉エージェントのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// users は現在のユーザーIDを保持するコンテキスト。
	users *UserContext
	// listener は通知ライフサイクルイベントの捕捉リスナー。
	listener *CaptureListener
	// writer はレコードストアへの非同期ライター。
	writer *SyncWriter
	// oracle は通知アクセス許可の判定オラクル。
	oracle *PermissionOracle
	// device はデバイスOSブリッジへのクライアント。
	device *DeviceBridge
}

// NewServer は新しい捕捉エージェントサーバーを生成する。
// 構成は環境変数から読み込む。リスナーの組み立ては1度だけ行われ、
// 再度呼び出しても既存のリスナーに影響しない。
func NewServer(port string) (*Server, error) {
	recordstoreURL := getEnvOr("RECORDSTORE_URL", "http://localhost:8091")
	deviceBridgeURL := getEnvOr("DEVICE_BRIDGE_URL", "http://localhost:8092")
	packageName := getEnvOr("AGENT_PACKAGE_NAME", "com.nao1215.notisync")
	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	users := NewUserContext()
	writer := NewSyncWriter(recordstoreURL)
	device := NewDeviceBridge(deviceBridgeURL)

	s := &Server{
		router:   router,
		port:     port,
		users:    users,
		writer:   writer,
		listener: NewCaptureListener(users, writer),
		oracle:   NewPermissionOracle(device, packageName),
		device:   device,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 通知ライフサイクルコールバック（内部API - OS通知ブリッジから呼び出される）
	internal := s.router.Group("/internal")
	{
		internal.POST("/notifications", s.handleNotificationEvent())
	}

	// ホストアプリ向けのコマンドディスパッチャ
	api := s.router.Group("/api/v1")
	{
		api.POST("/bridge", s.handleBridge())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "agent"})
	})
}

// handleNotificationEvent はOS通知ブリッジからのライフサイクルコールバックを
// 処理するハンドラを返す。整形されたエンベロープは常に202で受理する。
// イベント1件の処理結果（破棄されたか、書き込みが始まったか）は
// 呼び出し元に報告しない。
func (s *Server) handleNotificationEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var e notification.Event
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		s.listener.HandleEvent(&e)
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	}
}

// getEnvOr は環境変数の値を返し、未設定の場合はフォールバック値を返す。
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
