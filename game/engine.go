package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gammazero/deque"
)

// Engine は盤面と進行状態を管理する状態機械です
// 全ての公開操作は同期的に完了し、途中状態が外から見えることはありません。
// 並行アクセスする場合は呼び出し側で直列化してください
type Engine struct {
	cfg   Config
	board *Board
	run   RunState
	clock func() time.Time
	rng   *rand.Rand
}

// New は設定を検証してエンジンを生成します
// 地雷数が盤面に収まらない設定は構築時点で弾きます
func New(cfg Config) (*Engine, error) {
	return NewWithClock(cfg, time.Now, time.Now().UnixNano())
}

// NewWithClock は時計と乱数シードを差し替えてエンジンを生成します
// テストやソルバーの試行で決定的な挙動が必要な場合に使います
func NewWithClock(cfg Config, clock func() time.Time, seed int64) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("game: invalid board size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MineCount < 0 || cfg.MineCount >= cfg.Width*cfg.Height {
		return nil, fmt.Errorf("game: mine count %d does not fit %dx%d board",
			cfg.MineCount, cfg.Width, cfg.Height)
	}
	if cfg.Score == (ScoreConfig{}) {
		cfg.Score = DefaultScoreConfig
	}

	e := &Engine{
		cfg:   cfg,
		clock: clock,
		rng:   rand.New(rand.NewSource(seed)),
	}
	e.Reset()
	return e, nil
}

// Resume は地雷配置済みの盤面から進行中のエンジンを生成します
// リプレイ再現や既知配置でのテストに使います
func Resume(cfg Config, board *Board, clock func() time.Time) (*Engine, error) {
	if board.Width != cfg.Width || board.Height != cfg.Height {
		return nil, fmt.Errorf("game: board is %dx%d, config wants %dx%d",
			board.Width, board.Height, cfg.Width, cfg.Height)
	}
	if got := board.MineCount(); got != cfg.MineCount {
		return nil, fmt.Errorf("game: board has %d mines, config wants %d", got, cfg.MineCount)
	}
	if cfg.Score == (ScoreConfig{}) {
		cfg.Score = DefaultScoreConfig
	}

	e := &Engine{
		cfg:   cfg,
		board: board,
		clock: clock,
		rng:   rand.New(rand.NewSource(1)),
	}
	e.run = RunState{
		Phase:     PhaseActive,
		StartedAt: clock(),
	}
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			c := board.Cells[y][x]
			if c.State == StateRevealed && !c.IsMine {
				e.run.CellsRevealed++
			}
			if c.State == StateFlagged {
				e.run.FlagsPlaced++
			}
		}
	}
	return e, nil
}

// Config は構築時の設定を返します
func (e *Engine) Config() Config {
	return e.cfg
}

// Board は盤面を返します。読み取り専用として扱ってください
func (e *Engine) Board() *Board {
	return e.board
}

// Run は現在の進行状態のコピーを返します
func (e *Engine) Run() RunState {
	return e.run
}

// RemainingMines は地雷数から旗の数を引いた残り推定値を返します
// 旗を立てすぎると負になります。表示用の丸めは呼び出し側の責任です
func (e *Engine) RemainingMines() int {
	return e.cfg.MineCount - e.run.FlagsPlaced
}

// Reveal は指定座標のマスを開封します
// 初回の開封時に地雷配置が走るため、初手で地雷を踏むことはありません
func (e *Engine) Reveal(x, y int) RevealResult {
	if e.run.Phase.Terminal() {
		return RevealRejected
	}
	cell, err := e.board.CellAt(x, y)
	if err != nil || cell.State != StateHidden {
		return RevealRejected
	}

	if e.run.FirstClickPending {
		e.board.placeMines(e.cfg.MineCount, x, y, e.rng)
		e.board.calculateNeighbors()
		e.run.FirstClickPending = false
		e.run.Phase = PhaseActive
		e.run.StartedAt = e.clock()
	}

	if cell.IsMine {
		cell.State = StateRevealed
		e.run.Phase = PhaseFailed
		e.run.EndedAt = e.clock()
		e.revealAllMines()
		return RevealExploded
	}

	e.openCascade(x, y)

	if e.run.CellsRevealed == e.cfg.Width*e.cfg.Height-e.cfg.MineCount {
		e.run.Phase = PhaseSuccess
		e.run.EndedAt = e.clock()
		e.finalizeScore()
		return RevealWon
	}
	return RevealOpened
}

// openCascade は対象マスを開封し、周囲の地雷数が0なら連鎖的に開きます
// 再帰の代わりに明示的なキューで処理するため、盤面が大きくても
// スタックを消費しません。開封済みマークをキュー投入前に付けるので
// 同じマスを二度処理することはありません
func (e *Engine) openCascade(x, y int) {
	type point struct{ x, y int }
	now := e.clock()

	e.board.Cells[y][x].State = StateRevealed

	var queue deque.Deque[point]
	queue.PushBack(point{x, y})
	direct := true

	for queue.Len() > 0 {
		p := queue.PopFront()
		cell := &e.board.Cells[p.y][p.x]

		e.run.CellsRevealed++
		e.scoreReveal(cell, now, direct)
		direct = false

		if cell.NeighborCount != 0 {
			continue // 数字マスは連鎖の境界
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx := p.x + dx
				ny := p.y + dy
				if !e.board.InBounds(nx, ny) {
					continue
				}
				n := &e.board.Cells[ny][nx]
				if n.State != StateHidden || n.IsMine {
					continue
				}
				n.State = StateRevealed
				queue.PushBack(point{nx, ny})
			}
		}
	}
}

// revealAllMines はゲームオーバー時の表示用に全地雷を開封します
// スコアや開封カウントには加算しません
func (e *Engine) revealAllMines() {
	for y := 0; y < e.board.Height; y++ {
		for x := 0; x < e.board.Width; x++ {
			if e.board.Cells[y][x].IsMine {
				e.board.Cells[y][x].State = StateRevealed
			}
		}
	}
}

// ToggleFlag は指定座標のマーク状態を切り替えます
// 未開封 → 旗 → はてな → 未開封 の順に循環します。
// 開封済み・範囲外・終了後は false を返して何もしません
func (e *Engine) ToggleFlag(x, y int) bool {
	if e.run.Phase.Terminal() {
		return false
	}
	cell, err := e.board.CellAt(x, y)
	if err != nil || cell.State == StateRevealed {
		return false
	}

	switch cell.State {
	case StateHidden:
		cell.State = StateFlagged
		e.run.FlagsPlaced++
	case StateFlagged:
		cell.State = StateQuestioned
		e.run.FlagsPlaced--
	case StateQuestioned:
		cell.State = StateHidden
	}
	return true
}

// Reset は同じ設定で新しいラウンドを開始します
// 地雷配置もクリアされるので、次の初手除外が正しく機能します
func (e *Engine) Reset() {
	e.board = NewBoard(e.cfg.Width, e.cfg.Height)
	e.run = RunState{
		Phase:             PhaseReady,
		FirstClickPending: true,
	}
}

// Summary は終了したゲームの集計値を返します
// ゲームが終了していない場合は ok=false を返します
func (e *Engine) Summary() (Summary, bool) {
	if !e.run.Phase.Terminal() {
		return Summary{}, false
	}
	return Summary{
		Difficulty:    e.cfg.DifficultyID,
		StartedAt:     e.run.StartedAt,
		EndedAt:       e.run.EndedAt,
		Duration:      e.run.EndedAt.Sub(e.run.StartedAt),
		Success:       e.run.Phase == PhaseSuccess,
		CellsRevealed: e.run.CellsRevealed,
		FlagsUsed:     e.run.FlagsPlaced,
		Score:         e.run.Score,
		BestCombo:     e.run.BestCombo,
	}, true
}
