//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/naoto24kawa/sweep-game-sub000/game"
	"github.com/naoto24kawa/sweep-game-sub000/solver"
	"github.com/naoto24kawa/sweep-game-sub000/viewmodel"
)

// GameSession はブラウザ側から操作されるゲームの状態を保持します
type GameSession struct {
	engine *game.Engine
}

var session = &GameSession{}

// NewGame は新しいゲームを開始します
// difficulty が既知のIDならプリセットを、それ以外はカスタム設定を使います
func (s *GameSession) NewGame(width, height, mineCount int, difficulty string) string {
	cfg, ok := game.ConfigFor(difficulty)
	if !ok {
		cfg = game.Config{
			Width:        width,
			Height:       height,
			MineCount:    mineCount,
			DifficultyID: "custom",
		}
	}

	engine, err := game.New(cfg)
	if err != nil {
		return "{}"
	}
	s.engine = engine
	return viewmodel.NewGameView(s.engine)
}

// Open は指定されたセルを開きます
func (s *GameSession) Open(x, y int) string {
	if s.engine == nil {
		return ""
	}
	s.engine.Reveal(x, y)
	return viewmodel.NewGameView(s.engine)
}

// ToggleFlag は旗・はてなマークを切り替えます
func (s *GameSession) ToggleFlag(x, y int) string {
	if s.engine == nil {
		return ""
	}
	s.engine.ToggleFlag(x, y)
	return viewmodel.NewGameView(s.engine)
}

// Reset は同じ設定でやり直します
func (s *GameSession) Reset() string {
	if s.engine == nil {
		return ""
	}
	s.engine.Reset()
	return viewmodel.NewGameView(s.engine)
}

// BotStep はBotに1手進めさせます
func (s *GameSession) BotStep() string {
	if s.engine == nil || s.engine.Run().Phase.Terminal() {
		return ""
	}

	bot := solver.New(s.engine)
	move := bot.NextMove()
	if move == nil {
		return viewmodel.NewGameView(s.engine) // 打つ手なし
	}

	switch move.Type {
	case solver.MoveOpen:
		s.engine.Reveal(move.X, move.Y)
	case solver.MoveFlag:
		s.engine.ToggleFlag(move.X, move.Y)
	}

	return viewmodel.NewGameView(s.engine)
}

func newGameWrapper(this js.Value, args []js.Value) interface{} {
	// デフォルトは初級相当
	w, h, m := 9, 9, 10
	diff := ""

	if len(args) >= 3 {
		w = args[0].Int()
		h = args[1].Int()
		m = args[2].Int()
	}
	if len(args) >= 4 {
		diff = args[3].String()
	}

	return session.NewGame(w, h, m, diff)
}

func openCellWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	return session.Open(args[0].Int(), args[1].Int())
}

func toggleFlagWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	return session.ToggleFlag(args[0].Int(), args[1].Int())
}

func resetWrapper(this js.Value, args []js.Value) interface{} {
	return session.Reset()
}

func botStepWrapper(this js.Value, args []js.Value) interface{} {
	return session.BotStep()
}

func main() {
	c := make(chan struct{})

	js.Global().Set("goNewGame", js.FuncOf(newGameWrapper))
	js.Global().Set("goOpenCell", js.FuncOf(openCellWrapper))
	js.Global().Set("goToggleFlag", js.FuncOf(toggleFlagWrapper))
	js.Global().Set("goReset", js.FuncOf(resetWrapper))
	js.Global().Set("goBotStep", js.FuncOf(botStepWrapper))

	println("Go WebAssembly Initialized")
	<-c
}
