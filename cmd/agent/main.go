// 捕捉エージェントのエントリポイント。
// OS通知ブリッジからのライフサイクルイベントを受け取り、
// サインイン中のユーザーの通知レコードをレコードストアへ同期する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/notisync/internal/agent"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	server, err := agent.NewServer(port)
	if err != nil {
		log.Fatalf("エージェントサーバーの初期化に失敗: %v", err)
	}

	log.Printf("捕捉エージェントを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("捕捉エージェントの起動に失敗: %v", err)
	}
}
