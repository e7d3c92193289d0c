package game

import (
	"testing"
	"time"
)

// fakeClock はテストから進められる時計です
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testEngine(t *testing.T, cfg Config, seed int64) (*Engine, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	e, err := NewWithClock(cfg, clk.Now, seed)
	if err != nil {
		t.Fatalf("NewWithClock: %v", err)
	}
	return e, clk
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []Config{
		{Width: 0, Height: 9, MineCount: 1},
		{Width: 9, Height: -1, MineCount: 1},
		{Width: 3, Height: 3, MineCount: 9},  // 全マス地雷
		{Width: 3, Height: 3, MineCount: 10}, // 盤面より多い
		{Width: 2, Height: 2, MineCount: -1},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Errorf("New(%+v) succeeded, want error", cfg)
		}
	}
}

func TestFirstRevealNeverHitsMine(t *testing.T) {
	cfg, _ := ConfigFor(DifficultyEasy)
	for seed := int64(0); seed < 50; seed++ {
		e, _ := testEngine(t, cfg, seed)

		if got := e.Run().Phase; got != PhaseReady {
			t.Fatalf("seed %d: initial phase = %v", seed, got)
		}

		result := e.Reveal(4, 4)
		if result == RevealRejected || result == RevealExploded {
			t.Fatalf("seed %d: first reveal = %v", seed, result)
		}

		cell, _ := e.Board().CellAt(4, 4)
		if cell.IsMine {
			t.Fatalf("seed %d: first clicked cell is a mine", seed)
		}
		if got := e.Board().MineCount(); got != cfg.MineCount {
			t.Fatalf("seed %d: placed %d mines, want %d", seed, got, cfg.MineCount)
		}
		if phase := e.Run().Phase; phase == PhaseReady || phase == PhaseFailed {
			t.Fatalf("seed %d: phase after first reveal = %v", seed, phase)
		}
		if e.Run().StartedAt.IsZero() {
			t.Fatalf("seed %d: start time not recorded", seed)
		}
	}
}

func TestRevealRejections(t *testing.T) {
	cfg := Config{Width: 4, Height: 4, MineCount: 2}
	e, _ := testEngine(t, cfg, 3)

	if got := e.Reveal(-1, 0); got != RevealRejected {
		t.Errorf("out of bounds reveal = %v, want rejected", got)
	}
	if got := e.Reveal(4, 4); got != RevealRejected {
		t.Errorf("out of bounds reveal = %v, want rejected", got)
	}

	e.Reveal(0, 0)
	cell, _ := e.Board().CellAt(0, 0)
	if cell.State == StateRevealed {
		if got := e.Reveal(0, 0); got != RevealRejected {
			t.Errorf("re-reveal = %v, want rejected", got)
		}
	}

	// 旗・はてなの乗ったマスは開封できない
	var target *Cell
	for y := 0; y < 4 && target == nil; y++ {
		for x := 0; x < 4; x++ {
			if e.Board().Cells[y][x].State == StateHidden {
				target = &e.Board().Cells[y][x]
				break
			}
		}
	}
	if target == nil {
		t.Skip("no hidden cell left")
	}
	e.ToggleFlag(target.X, target.Y)
	if got := e.Reveal(target.X, target.Y); got != RevealRejected {
		t.Errorf("reveal on flagged cell = %v, want rejected", got)
	}
	e.ToggleFlag(target.X, target.Y)
	if got := e.Reveal(target.X, target.Y); got != RevealRejected {
		t.Errorf("reveal on questioned cell = %v, want rejected", got)
	}
}

func TestZeroMineGridRevealsFullyInOneCall(t *testing.T) {
	cfg := Config{Width: 3, Height: 3, MineCount: 0}
	e, _ := testEngine(t, cfg, 1)

	result := e.Reveal(1, 1)
	if result != RevealWon {
		t.Fatalf("reveal = %v, want won", result)
	}
	run := e.Run()
	if run.CellsRevealed != 9 {
		t.Fatalf("cells revealed = %d, want 9", run.CellsRevealed)
	}
	if run.Phase != PhaseSuccess {
		t.Fatalf("phase = %v, want success", run.Phase)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if e.Board().Cells[y][x].State != StateRevealed {
				t.Errorf("cell (%d,%d) not revealed after cascade", x, y)
			}
		}
	}
}

func TestCascadeOpensRegionAndBorder(t *testing.T) {
	// 左端の連鎖は地雷手前の数字マスで止まる
	board, err := ParseBoard([]string{"....*...."})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Width: 9, Height: 1, MineCount: 1}
	e, err := Resume(cfg, board, newFakeClock().Now)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if got := e.Reveal(0, 0); got != RevealOpened {
		t.Fatalf("reveal = %v, want opened", got)
	}

	wantOpen := map[int]bool{0: true, 1: true, 2: true, 3: true}
	for x := 0; x < 9; x++ {
		c := e.Board().Cells[0][x]
		if wantOpen[x] && c.State != StateRevealed {
			t.Errorf("cell x=%d should be revealed", x)
		}
		if !wantOpen[x] && c.State == StateRevealed {
			t.Errorf("cell x=%d should stay hidden", x)
		}
	}
	if got := e.Run().CellsRevealed; got != 4 {
		t.Errorf("cells revealed = %d, want 4", got)
	}
}

func TestExplosionRevealsEveryMine(t *testing.T) {
	board, err := ParseBoard([]string{
		"*........",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
		".........",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Width: 9, Height: 9, MineCount: 1}
	e, err := Resume(cfg, board, newFakeClock().Now)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if got := e.Reveal(0, 0); got != RevealExploded {
		t.Fatalf("reveal mine = %v, want exploded", got)
	}
	run := e.Run()
	if run.Phase != PhaseFailed {
		t.Fatalf("phase = %v, want failed", run.Phase)
	}
	if run.EndedAt.IsZero() {
		t.Fatal("end time not recorded")
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			c := e.Board().Cells[y][x]
			if c.IsMine && c.State != StateRevealed {
				t.Errorf("mine (%d,%d) not revealed on loss", x, y)
			}
		}
	}
	// 地雷は開封カウントに入らない
	if run.CellsRevealed != 0 {
		t.Errorf("cells revealed = %d, want 0", run.CellsRevealed)
	}
}

func TestWinConditionExactness(t *testing.T) {
	board, err := ParseBoard([]string{
		"*.",
		"..",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Width: 2, Height: 2, MineCount: 1}
	e, err := Resume(cfg, board, newFakeClock().Now)
	if err != nil {
		t.Fatal(err)
	}

	safe := [][2]int{{1, 0}, {0, 1}, {1, 1}}
	for i, p := range safe {
		result := e.Reveal(p[0], p[1])
		run := e.Run()
		wantWin := i == len(safe)-1
		if wantWin {
			if result != RevealWon || run.Phase != PhaseSuccess {
				t.Fatalf("final reveal = %v phase %v, want won/success", result, run.Phase)
			}
		} else {
			if result != RevealOpened || run.Phase != PhaseActive {
				t.Fatalf("reveal %d = %v phase %v, want opened/active", i, result, run.Phase)
			}
		}
		// クリア条件は「安全マス全開封」と常に同値
		isWin := run.CellsRevealed == cfg.Width*cfg.Height-cfg.MineCount
		if isWin != (run.Phase == PhaseSuccess) {
			t.Fatalf("win predicate mismatch: revealed=%d phase=%v", run.CellsRevealed, run.Phase)
		}
	}
}

func TestFlagCycle(t *testing.T) {
	cfg := Config{Width: 4, Height: 4, MineCount: 2}
	e, _ := testEngine(t, cfg, 9)

	states := []CellState{StateFlagged, StateQuestioned, StateHidden}
	flags := []int{1, 0, 0}
	for i, want := range states {
		if !e.ToggleFlag(2, 2) {
			t.Fatalf("toggle %d rejected", i)
		}
		cell, _ := e.Board().CellAt(2, 2)
		if cell.State != want {
			t.Fatalf("toggle %d: state = %v, want %v", i, cell.State, want)
		}
		if got := e.Run().FlagsPlaced; got != flags[i] {
			t.Fatalf("toggle %d: flags placed = %d, want %d", i, got, flags[i])
		}
	}
}

func TestToggleFlagRejections(t *testing.T) {
	cfg := Config{Width: 4, Height: 4, MineCount: 2}
	e, _ := testEngine(t, cfg, 5)

	if e.ToggleFlag(-1, 0) || e.ToggleFlag(9, 9) {
		t.Error("out of bounds toggle accepted")
	}

	e.Reveal(0, 0)
	cell, _ := e.Board().CellAt(0, 0)
	if cell.State == StateRevealed && e.ToggleFlag(0, 0) {
		t.Error("toggle on revealed cell accepted")
	}
}

func TestRemainingMinesMayGoNegative(t *testing.T) {
	cfg := Config{Width: 3, Height: 3, MineCount: 1}
	e, _ := testEngine(t, cfg, 2)

	for _, p := range [][2]int{{0, 0}, {1, 0}, {2, 0}} {
		e.ToggleFlag(p[0], p[1])
	}
	if got := e.RemainingMines(); got != -2 {
		t.Fatalf("remaining mines = %d, want -2", got)
	}
}

func TestTerminalStateIsImmutable(t *testing.T) {
	board, err := ParseBoard([]string{
		"*.",
		"..",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Width: 2, Height: 2, MineCount: 1}
	e, err := Resume(cfg, board, newFakeClock().Now)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.Reveal(0, 0); got != RevealExploded {
		t.Fatalf("setup reveal = %v", got)
	}
	before := e.Run()

	if got := e.Reveal(1, 1); got != RevealRejected {
		t.Errorf("reveal after loss = %v, want rejected", got)
	}
	if e.ToggleFlag(1, 1) {
		t.Error("toggle after loss accepted")
	}

	after := e.Run()
	if before != after {
		t.Errorf("run state changed after terminal phase:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestResetStartsFreshRound(t *testing.T) {
	cfg, _ := ConfigFor(DifficultyEasy)
	e, clk := testEngine(t, cfg, 11)

	e.Reveal(4, 4)
	e.ToggleFlag(0, 0)
	clk.Advance(10 * time.Second)
	e.Reset()

	run := e.Run()
	if run.Phase != PhaseReady || !run.FirstClickPending {
		t.Fatalf("after reset: %+v", run)
	}
	if run.Score != 0 || run.CellsRevealed != 0 || run.FlagsPlaced != 0 || run.BestCombo != 0 {
		t.Fatalf("counters survived reset: %+v", run)
	}
	if got := e.Board().MineCount(); got != 0 {
		t.Fatalf("mines survived reset: %d", got)
	}

	// リセット後も初手除外が効くこと
	result := e.Reveal(0, 0)
	if result == RevealRejected || result == RevealExploded {
		t.Fatalf("first reveal after reset = %v", result)
	}
	cell, _ := e.Board().CellAt(0, 0)
	if cell.IsMine {
		t.Fatal("first click after reset hit a mine")
	}
}

func TestSummaryOnlyWhenFinished(t *testing.T) {
	board, err := ParseBoard([]string{
		"*.",
		"..",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Width: 2, Height: 2, MineCount: 1, DifficultyID: "custom"}
	clk := newFakeClock()
	e, err := Resume(cfg, board, clk.Now)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := e.Summary(); ok {
		t.Fatal("summary available before game end")
	}

	e.Reveal(1, 0)
	clk.Advance(7 * time.Second)
	e.Reveal(0, 1)
	e.Reveal(1, 1)

	sum, ok := e.Summary()
	if !ok {
		t.Fatal("summary unavailable after win")
	}
	if !sum.Success || sum.CellsRevealed != 3 || sum.Difficulty != "custom" {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.Duration != 7*time.Second {
		t.Fatalf("duration = %v, want 7s", sum.Duration)
	}
	if sum.Score != e.Run().Score {
		t.Fatalf("summary score %d != run score %d", sum.Score, e.Run().Score)
	}
}
