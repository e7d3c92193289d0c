package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config はサーバー起動時の設定です
type Config struct {
	Server struct {
		Addr string
		Mode string // gin のモード (debug / release)
	}
	Game struct {
		DefaultDifficulty string
	}
	Session struct {
		Max int
	}
	Log struct {
		Level string
	}
}

// Load は config.yaml を読み込みます
// path が空なら ./config ディレクトリを探します。設定ファイルが
// 見つからない場合はデフォルト値だけで起動します
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	} else {
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("game.defaultDifficulty", "easy")
	v.SetDefault("session.max", 1000)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal failed: %w", err)
	}
	return &cfg, nil
}
