package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naoto24kawa/sweep-game-sub000/game"
)

// ErrSessionLimit はセッション数が上限に達した場合に返されます
var ErrSessionLimit = errors.New("server: session limit reached")

// Session は1プレイヤー分のエンジンを保持します
// エンジンは単一ライター前提なので、操作は必ず With 経由で直列化します
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *game.Engine
}

// With はセッションのロックを取ってエンジン操作を実行します
func (s *Session) With(fn func(e *game.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Store は進行中のゲームセッションを管理します
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewStore はセッションストアを初期化します。limit が 0 以下なら無制限です
func NewStore(limit int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		limit:    limit,
	}
}

// Create は新しいエンジンでセッションを作成します
func (st *Store) Create(cfg game.Config) (*Session, error) {
	engine, err := game.New(cfg)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.limit > 0 && len(st.sessions) >= st.limit {
		return nil, ErrSessionLimit
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		engine:    engine,
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get はIDでセッションを探します
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete はセッションを破棄します
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Count は現在のセッション数を返します
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
