// レコードストアサービスのエントリポイント。
// 捕捉エージェントから追記される通知レコードをユーザーごとに保存し、
// 閲覧用の読み取りAPIを提供する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/notisync/internal/recordstore"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8091"
	}

	server, err := recordstore.NewServer(port)
	if err != nil {
		log.Fatalf("レコードストアサーバーの初期化に失敗: %v", err)
	}

	log.Printf("レコードストアサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("レコードストアサービスの起動に失敗: %v", err)
	}
}
