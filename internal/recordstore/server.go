package recordstore

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	recorddb "github.com/nao1215/notisync/internal/recordstore/db"
	"github.com/nao1215/notisync/pkg/middleware"
)

// Server はレコードストアサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はnotification_recordsテーブルのクエリ実行オブジェクト。
	queries *recorddb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// jwtSecret はJWT検証用の秘密鍵。
	jwtSecret string
}

// NewServer は新しいレコードストアサーバーを生成する。
// SQLiteデータベースの初期化とマイグレーションの適用を行う。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/recordstore.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:    router,
		port:      port,
		queries:   recorddb.New(sqlDB),
		db:        sqlDB,
		jwtSecret: jwtSecret,
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
	api := s.router.Group("/api/v1")
	{
		// レコード追記（内部API - エージェントの同期ライターから呼び出される）
		internal := api.Group("/internal")
		{
			internal.POST("/users/:user_id/notifications", s.handleAppend())
		}

		// 閲覧API（ホストアプリから呼び出される。JWT必須）
		authed := api.Group("/notifications")
		authed.Use(middleware.JWTAuth(s.jwtSecret))
		{
			// 通知レコード一覧取得（新着順）
			authed.GET("", s.handleList())
			// 通知レコード件数取得
			authed.GET("/count", s.handleCount())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "recordstore"})
	})
}

// appendRequest はレコード追記リクエストのJSON構造。
// エージェント側のnotification.Recordと同じ形。
type appendRequest struct {
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string `json:"package_name" binding:"required"`
	// Title は通知のタイトル。存在しない場合はnull。
	Title *string `json:"title"`
	// Text は通知の本文。存在しない場合はnull。
	Text *string `json:"text"`
	// PostedAt は通知の掲示時刻（エポックからのミリ秒）。
	PostedAt int64 `json:"posted_at" binding:"required"`
}

// recordResponse は通知レコードのJSONレスポンス構造。
type recordResponse struct {
	// ID はレコードの一意識別子。
	ID string `json:"id"`
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string `json:"package_name"`
	// Title は通知のタイトル。存在しない場合はnull。
	Title *string `json:"title"`
	// Text は通知の本文。存在しない場合はnull。
	Text *string `json:"text"`
	// PostedAt は通知の掲示時刻（エポックからのミリ秒）。
	PostedAt int64 `json:"posted_at"`
	// CreatedAt はレコードの受領日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toRecordResponse はDB行をJSONレスポンスに変換する。
func toRecordResponse(r recorddb.NotificationRecord) recordResponse {
	return recordResponse{
		ID:          r.ID,
		PackageName: r.PackageName,
		Title:       nullStringPtr(r.Title),
		Text:        nullStringPtr(r.Text),
		PostedAt:    r.PostedAt,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// nullStringPtr はsql.NullStringをポインタに変換する。
func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// toNullString はポインタをsql.NullStringに変換する。
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// handleAppend は通知レコードを1件追記するハンドラを返す。
// 識別子はシンク側でUUIDを採番する。レコードは追記専用で、
// 以後の更新・削除は行わない。
func (s *Server) handleAppend() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ユーザーIDが必要です"})
			return
		}

		var req appendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		recordID := uuid.New().String()

		if err := s.queries.CreateNotificationRecord(c.Request.Context(), recorddb.CreateNotificationRecordParams{
			ID:          recordID,
			UserID:      userID,
			PackageName: req.PackageName,
			Title:       toNullString(req.Title),
			Text:        toNullString(req.Text),
			PostedAt:    req.PostedAt,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "レコードの追記に失敗しました"})
			log.Printf("レコード追記エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": recordID})
	}
}

// handleList は認証済みユーザーの通知レコード一覧を新着順で返すハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		records, err := s.queries.ListNotificationRecordsByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "レコード一覧の取得に失敗しました"})
			log.Printf("レコード一覧取得エラー: %v", err)
			return
		}

		responses := make([]recordResponse, 0, len(records))
		for _, r := range records {
			responses = append(responses, toRecordResponse(r))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleCount は認証済みユーザーの通知レコード件数を返すハンドラを返す。
func (s *Server) handleCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		count, err := s.queries.CountNotificationRecordsByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "レコード件数の取得に失敗しました"})
			log.Printf("レコード件数取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
