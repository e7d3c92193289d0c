package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/naoto24kawa/sweep-game-sub000/config"
	"github.com/naoto24kawa/sweep-game-sub000/server"
)

func main() {
	log := logrus.New()

	// 1. 設定の読み込み
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	// 2. ルーターとセッションストアの初期化
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	store := server.NewStore(cfg.Session.Max)
	handler := server.NewHandler(store, log, cfg.Game.DefaultDifficulty)
	handler.RegisterRoutes(r)

	// 3. 起動
	log.WithField("addr", cfg.Server.Addr).Info("sweep-game server starting")
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
