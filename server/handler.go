package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/naoto24kawa/sweep-game-sub000/game"
	"github.com/naoto24kawa/sweep-game-sub000/viewmodel"
)

// Handler はゲームセッションAPIのHTTPハンドラ群です
type Handler struct {
	store       *Store
	log         *logrus.Logger
	defaultDiff string // 難易度もサイズも指定されなかった場合に使う
}

func NewHandler(store *Store, log *logrus.Logger, defaultDiff string) *Handler {
	return &Handler{store: store, log: log, defaultDiff: defaultDiff}
}

// RegisterRoutes はAPIルートを登録します
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HandleHealth)

	api := r.Group("/api")
	{
		api.POST("/games", h.HandleCreate)
		api.GET("/games/:id", h.HandleState)
		api.DELETE("/games/:id", h.HandleDelete)
		api.POST("/games/:id/reveal", h.HandleReveal)
		api.POST("/games/:id/flag", h.HandleFlag)
		api.POST("/games/:id/reset", h.HandleReset)
		api.GET("/games/:id/summary", h.HandleSummary)
	}
}

// HandleHealth はヘルスチェックAPI
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sessions":  h.store.Count(),
		"timestamp": time.Now().Unix(),
	})
}

type createRequest struct {
	Difficulty string `json:"difficulty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Mines      int    `json:"mines"`
}

// HandleCreate は新しいゲームセッションを作成します
// difficulty 指定が優先され、なければ width/height/mines のカスタム設定を使います
func (h *Handler) HandleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Difficulty == "" && req.Width == 0 && req.Height == 0 {
		req.Difficulty = h.defaultDiff
	}

	var cfg game.Config
	if req.Difficulty != "" {
		preset, ok := game.ConfigFor(req.Difficulty)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty: " + req.Difficulty})
			return
		}
		cfg = preset
	} else {
		cfg = game.Config{
			Width:        req.Width,
			Height:       req.Height,
			MineCount:    req.Mines,
			DifficultyID: "custom",
		}
	}

	session, err := h.store.Create(cfg)
	if err != nil {
		if errors.Is(err, ErrSessionLimit) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.WithFields(logrus.Fields{
		"session":    session.ID,
		"difficulty": cfg.DifficultyID,
		"board":      cfg.Width * cfg.Height,
	}).Info("session created")

	var view viewmodel.GameView
	session.With(func(e *game.Engine) {
		view = viewmodel.Snapshot(e)
	})
	c.JSON(http.StatusCreated, gin.H{"id": session.ID, "game": view})
}

type cellRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HandleReveal はマスを開封するAPI
func (h *Handler) HandleReveal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var result game.RevealResult
	var view viewmodel.GameView
	session.With(func(e *game.Engine) {
		result = e.Reveal(req.X, req.Y)
		view = viewmodel.Snapshot(e)
	})

	if result == game.RevealRejected {
		// UI操作のノイズなのでエラーにはしない
		h.log.WithFields(logrus.Fields{
			"session": session.ID, "x": req.X, "y": req.Y,
		}).Debug("reveal rejected")
	}

	c.JSON(http.StatusOK, gin.H{"result": result.String(), "game": view})
}

// HandleFlag は旗・はてなマークを切り替えるAPI
func (h *Handler) HandleFlag(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var accepted bool
	var view viewmodel.GameView
	session.With(func(e *game.Engine) {
		accepted = e.ToggleFlag(req.X, req.Y)
		view = viewmodel.Snapshot(e)
	})
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "game": view})
}

// HandleReset は同じ設定でゲームをやり直すAPI
func (h *Handler) HandleReset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var view viewmodel.GameView
	session.With(func(e *game.Engine) {
		e.Reset()
		view = viewmodel.Snapshot(e)
	})
	h.log.WithField("session", session.ID).Info("session reset")
	c.JSON(http.StatusOK, gin.H{"game": view})
}

// HandleState は現在の盤面スナップショットを返すAPI
func (h *Handler) HandleState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var view viewmodel.GameView
	session.With(func(e *game.Engine) {
		view = viewmodel.Snapshot(e)
	})
	c.JSON(http.StatusOK, gin.H{"game": view})
}

// HandleSummary は終了したゲームの集計値を返すAPI
// 進行中のセッションに対しては 409 を返します
func (h *Handler) HandleSummary(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var summary game.Summary
	var done bool
	session.With(func(e *game.Engine) {
		summary, done = e.Summary()
	})
	if !done {
		c.JSON(http.StatusConflict, gin.H{"error": "game is still in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// HandleDelete はセッションを破棄するAPI
func (h *Handler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.log.WithField("session", id).Info("session deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	id := c.Param("id")
	session, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return session, true
}
