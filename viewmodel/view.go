package viewmodel

import (
	"encoding/json"

	"github.com/naoto24kawa/sweep-game-sub000/game"
)

// CellView は描画側に渡す1マス分の情報です
// IsMine はゲーム終了まで必ず false に伏せられます
type CellView struct {
	State  string `json:"state"`
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
}

// GameView は盤面スナップショットと進行状態をまとめたものです
// 描画・効果音・統計などの外部コンポーネントはこれだけを見て動きます
type GameView struct {
	Cells          [][]CellView `json:"cells"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	Phase          string       `json:"phase"`
	MinesRemaining int          `json:"mines_remaining"`
	CellsRevealed  int          `json:"cells_revealed"`
	Score          int          `json:"score"`
	Combo          int          `json:"combo"`
	BestCombo      int          `json:"best_combo"`
	ElapsedMs      int64        `json:"elapsed_ms"`
	IsGameOver     bool         `json:"is_game_over"`
	IsGameClear    bool         `json:"is_game_clear"`
}

// Snapshot はエンジンの現在状態からビューを組み立てます
func Snapshot(e *game.Engine) GameView {
	b := e.Board()
	run := e.Run()

	isOver := run.Phase == game.PhaseFailed
	isClear := run.Phase == game.PhaseSuccess

	grid := make([][]CellView, b.Height)
	for y := 0; y < b.Height; y++ {
		grid[y] = make([]CellView, b.Width)
		for x := 0; x < b.Width; x++ {
			c := b.Cells[y][x]
			v := CellView{State: c.State.String()}

			if c.State == game.StateRevealed {
				v.Count = c.NeighborCount
				if run.Phase.Terminal() {
					v.IsMine = c.IsMine
				}
			}

			// クリア時は未開封で残った地雷を旗表示にします
			if isClear && c.IsMine && c.State != game.StateRevealed {
				v.State = game.StateFlagged.String()
			}
			grid[y][x] = v
		}
	}

	var elapsed int64
	if !run.StartedAt.IsZero() && !run.EndedAt.IsZero() {
		elapsed = run.EndedAt.Sub(run.StartedAt).Milliseconds()
	}

	return GameView{
		Cells:          grid,
		Width:          b.Width,
		Height:         b.Height,
		Phase:          run.Phase.String(),
		MinesRemaining: e.RemainingMines(),
		CellsRevealed:  run.CellsRevealed,
		Score:          run.Score,
		Combo:          run.ComboCount,
		BestCombo:      run.BestCombo,
		ElapsedMs:      elapsed,
		IsGameOver:     isOver,
		IsGameClear:    isClear,
	}
}

// NewGameView はビューをJSON文字列にして返します
// wasm境界ではGoの構造体を渡せないため文字列で受け渡します
func NewGameView(e *game.Engine) string {
	if e == nil {
		return "{}"
	}
	bytes, err := json.Marshal(Snapshot(e))
	if err != nil {
		return "{}"
	}
	return string(bytes)
}
