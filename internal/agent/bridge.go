package agent

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bridgeRequest はブリッジ呼び出しのJSON構造。
// ホストアプリのメソッド呼び出し形式に対応する。
type bridgeRequest struct {
	// Method は呼び出す操作名。
	Method string `json:"method" binding:"required"`
	// Arguments は操作ごとの引数。操作によっては省略される。
	Arguments json.RawMessage `json:"arguments"`
}

// setUserIDArgs はsetUserId操作の引数。
type setUserIDArgs struct {
	// UserID は設定するユーザーID。nullはサインアウトを表す。
	UserID *string `json:"userId"`
}

// handleBridge はホストアプリ向けのコマンドディスパッチャを返す。
// 対応する操作は setUserId / openNotificationSettings /
// isNotificationServiceEnabled の3つのみ。それ以外の操作名には
// 501（未実装）を返し、呼び出し側の契約違反を実行時エラーと区別する。
func (s *Server) handleBridge() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bridgeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		switch req.Method {
		case "setUserId":
			s.bridgeSetUserID(c, req.Arguments)
		case "openNotificationSettings":
			s.bridgeOpenNotificationSettings(c)
		case "isNotificationServiceEnabled":
			s.bridgeIsNotificationServiceEnabled(c)
		default:
			c.JSON(http.StatusNotImplemented, gin.H{"error": fmt.Sprintf("未実装の操作です: %s", req.Method)})
		}
	}
}

// bridgeSetUserID はsetUserId操作を処理する。
// ユーザーIDの検証は行わない（認証は上流で完了している前提）。
func (s *Server) bridgeSetUserID(c *gin.Context, rawArgs json.RawMessage) {
	var args setUserIDArgs
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("引数が不正です: %v", err)})
			return
		}
	}

	if args.UserID == nil {
		s.users.Clear()
		log.Printf("[Bridge] ユーザーIDを未設定にしました")
	} else {
		s.users.Set(*args.UserID)
		log.Printf("[Bridge] ユーザーIDを設定しました: %s", *args.UserID)
	}

	c.JSON(http.StatusOK, gin.H{"result": nil})
}

// bridgeOpenNotificationSettings はopenNotificationSettings操作を処理する。
// OSへの遷移依頼をもって応答し、ユーザーの選択結果は待たず報告もしない。
func (s *Server) bridgeOpenNotificationSettings(c *gin.Context) {
	if err := s.device.OpenNotificationAccessSettings(c.Request.Context()); err != nil {
		log.Printf("[Bridge] 設定画面の起動依頼エラー: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"result": nil})
}

// bridgeIsNotificationServiceEnabled はisNotificationServiceEnabled操作を処理する。
func (s *Server) bridgeIsNotificationServiceEnabled(c *gin.Context) {
	enabled := s.oracle.IsEnabled(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"result": enabled})
}
