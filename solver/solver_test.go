package solver

import (
	"testing"
	"time"

	"github.com/naoto24kawa/sweep-game-sub000/game"
)

func resumeEngine(t *testing.T, rows []string, mines int) *game.Engine {
	t.Helper()
	board, err := game.ParseBoard(rows)
	if err != nil {
		t.Fatal(err)
	}
	cfg := game.Config{Width: board.Width, Height: board.Height, MineCount: mines}
	e, err := game.Resume(cfg, board, time.Now)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestLogicFindsCertainMine(t *testing.T) {
	// x3 の「1」の未開封隣接マスは x2 だけなので x2 は確定地雷
	e := resumeEngine(t, []string{"*.*.."}, 2)
	if got := e.Reveal(4, 0); got != game.RevealOpened {
		t.Fatalf("setup reveal = %v", got)
	}

	move := NewSeeded(e, 1).NextMove()
	if move == nil {
		t.Fatal("no move")
	}
	if move.Type != MoveFlag || move.X != 2 || move.Y != 0 {
		t.Fatalf("move = %+v, want flag at (2,0)", move)
	}
	if move.IsGuess || move.Confidence != 1.0 {
		t.Fatalf("certain move marked as guess: %+v", move)
	}
}

func TestLogicFindsSafeMoveAfterFlags(t *testing.T) {
	// x1 の「1」は旗で満たされるので、残りの隣接未開封 x0 は安全
	e := resumeEngine(t, []string{"..*.."}, 1)
	if got := e.Reveal(1, 0); got != game.RevealOpened {
		t.Fatalf("setup reveal = %v", got)
	}
	if !e.ToggleFlag(2, 0) {
		t.Fatal("setup flag rejected")
	}

	move := NewSeeded(e, 1).NextMove()
	if move == nil {
		t.Fatal("no move")
	}
	if move.Type != MoveOpen || move.X != 0 || move.Y != 0 {
		t.Fatalf("move = %+v, want open at (0,0)", move)
	}
	if move.Strategy != "Logic" {
		t.Fatalf("strategy = %q, want Logic", move.Strategy)
	}
}

func TestTankResolvesConstraintSystem(t *testing.T) {
	// 角2地雷の配置。単純な1マス論理では解けないが、
	// 制約を連立すると (1,0) が安全で (0,0)・(2,0) が地雷と確定する
	e := resumeEngine(t, []string{
		"*.*",
		"...",
		"...",
	}, 2)
	if got := e.Reveal(1, 2); got != game.RevealOpened {
		t.Fatalf("setup reveal = %v", got)
	}

	move := NewSeeded(e, 1).NextMove()
	if move == nil {
		t.Fatal("no move")
	}
	if move.Confidence != 1.0 || move.IsGuess {
		t.Fatalf("tank should be certain, got %+v", move)
	}
	switch move.Type {
	case MoveOpen:
		if move.X != 1 || move.Y != 0 {
			t.Fatalf("open move = %+v, want (1,0)", move)
		}
	case MoveFlag:
		if move.Y != 0 || (move.X != 0 && move.X != 2) {
			t.Fatalf("flag move = %+v, want (0,0) or (2,0)", move)
		}
	}
}

func TestEncodeWindow(t *testing.T) {
	e := resumeEngine(t, []string{
		"*.*",
		"...",
		"...",
	}, 2)
	if got := e.Reveal(1, 2); got != game.RevealOpened {
		t.Fatalf("setup reveal = %v", got)
	}
	if !e.ToggleFlag(0, 0) {
		t.Fatal("setup flag rejected")
	}

	input := EncodeWindow(e.Board(), 1, 1)
	if len(input) != 25 {
		t.Fatalf("window length = %d, want 25", len(input))
	}

	// 中心(1,1)から見た左上(-2,-2)は盤面外
	if input[0] != 9 {
		t.Errorf("out-of-board value = %v, want 9", input[0])
	}
	// (0,0) は旗
	if input[6] != -2 {
		t.Errorf("flagged value = %v, want -2", input[6])
	}
	// (2,0) は未開封の地雷。情報は漏れない
	if input[8] != -1 {
		t.Errorf("hidden mine value = %v, want -1", input[8])
	}
	// (1,1) 自身は開封済みの「2」
	if input[12] != 2 {
		t.Errorf("center value = %v, want 2", input[12])
	}
	// (2,2) は開封済みのゼロ
	if input[18] != 0 {
		t.Errorf("revealed zero value = %v, want 0", input[18])
	}
}

func TestSelfPlayTerminates(t *testing.T) {
	cfg, _ := game.ConfigFor(game.DifficultyEasy)
	for seed := int64(0); seed < 5; seed++ {
		e, err := game.NewWithClock(cfg, time.Now, seed)
		if err != nil {
			t.Fatal(err)
		}
		bot := NewSeeded(e, seed)

		e.Reveal(4, 4)
		steps := 0
		for !e.Run().Phase.Terminal() {
			move := bot.NextMove()
			if move == nil {
				t.Fatalf("seed %d: solver gave up mid-game", seed)
			}
			if move.Type == MoveOpen {
				e.Reveal(move.X, move.Y)
			} else {
				e.ToggleFlag(move.X, move.Y)
			}
			steps++
			if steps > 500 {
				t.Fatalf("seed %d: game did not terminate", seed)
			}
		}
	}
}
