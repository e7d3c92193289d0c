package solver

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naoto24kawa/sweep-game-sub000/ai"
	"github.com/naoto24kawa/sweep-game-sub000/game"
)

type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

type Move struct {
	X, Y       int
	Type       MoveType
	IsGuess    bool    // 運任せかどうか
	Strategy   string  // "Logic", "Tank", "AI", "Random"
	Confidence float64 // 0.0 ~ 1.0 (安全確率)
}

// Solver はエンジンの盤面を読んで次の一手を提案します
// 盤面への書き込みは行いません（操作は呼び出し側がエンジン経由で実行）
type Solver struct {
	Engine *game.Engine
	AiNet  *ai.Network

	rng *rand.Rand
	log *logrus.Logger
}

// New はソルバーを初期化します。AI重みの読み込みに失敗しても
// 論理手とランダム手だけで動作を続けます
func New(e *game.Engine) *Solver {
	log := logrus.New()
	net, err := ai.NewNetwork(game.GetWeightsJSON())
	if err != nil {
		log.WithError(err).Warn("AI weights unavailable, falling back to random guesses")
	}
	return &Solver{
		Engine: e,
		AiNet:  net,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    log,
	}
}

// NewSeeded はシード固定のソルバーを返します（試行の再現用）
func NewSeeded(e *game.Engine, seed int64) *Solver {
	s := New(e)
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// NextMove は次の一手を返します。打つ手がなければ nil を返します
// 優先順: 論理的に確定した手 → タンク探索 → AI推論 → ランダム
func (s *Solver) NextMove() *Move {
	// 1. 論理的に「絶対に安全」
	if move := s.findSafeMove(); move != nil {
		move.IsGuess = false
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 2. 論理的に「絶対に地雷」
	if move := s.findFlagMove(); move != nil {
		move.IsGuess = false
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 3. タンク探索（境界の全列挙）
	if move := s.tank().Solve(); move != nil {
		move.IsGuess = move.Confidence < 1.0
		s.log.WithFields(logrus.Fields{
			"x": move.X, "y": move.Y, "confidence": move.Confidence,
		}).Debug("tank move")
		return move
	}

	// 4. AI または ランダム
	move := s.findGuessMove()
	if move != nil {
		move.IsGuess = true
	}
	return move
}

func (s *Solver) tank() *TankSolver {
	return NewTankSolver(s.Engine.Board())
}

// findSafeMove は「旗の数 == 数字」になった数字マスの残り隣接マスを探します
func (s *Solver) findSafeMove() *Move {
	b := s.Engine.Board()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.Cells[y][x]
			if cell.State != game.StateRevealed || cell.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(b, x, y)
			if flags == cell.NeighborCount && len(hidden) > 0 {
				target := hidden[0]
				return &Move{X: target.x, Y: target.y, Type: MoveOpen}
			}
		}
	}
	return nil
}

// findFlagMove は「未開封の数 == 数字」になった数字マスの隣接マスに旗を立てます
func (s *Solver) findFlagMove() *Move {
	b := s.Engine.Board()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.Cells[y][x]
			if cell.State != game.StateRevealed || cell.NeighborCount == 0 {
				continue
			}
			totalHidden, flags, hidden := neighborsInfo(b, x, y)
			if totalHidden+flags == cell.NeighborCount && totalHidden > 0 {
				return &Move{X: hidden[0].x, Y: hidden[0].y, Type: MoveFlag}
			}
		}
	}
	return nil
}

// findGuessMove はAIの推論で最も安全そうなマスを選びます
// AIが使えない場合は完全ランダムです
func (s *Solver) findGuessMove() *Move {
	b := s.Engine.Board()

	if s.AiNet != nil {
		bestProb := 1.0 // 地雷確率（低いほうが良い）
		var bestMove *Move

		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				c := b.Cells[y][x]
				if c.State != game.StateHidden && c.State != game.StateQuestioned {
					continue
				}
				prob := s.AiNet.Predict(EncodeWindow(b, x, y))
				if prob < bestProb {
					bestProb = prob
					bestMove = &Move{
						X: x, Y: y,
						Type:       MoveOpen,
						Strategy:   "AI",
						Confidence: 1.0 - prob,
					}
				}
			}
		}
		if bestMove != nil {
			return bestMove
		}
	}

	return s.findPureRandomMove()
}

func (s *Solver) findPureRandomMove() *Move {
	b := s.Engine.Board()
	candidates := []pos{}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Cells[y][x]
			if c.State == game.StateHidden || c.State == game.StateQuestioned {
				candidates = append(candidates, pos{x, y})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	choice := candidates[s.rng.Intn(len(candidates))]
	return &Move{
		X: choice.x, Y: choice.y,
		Type:       MoveOpen,
		Strategy:   "Random",
		Confidence: 0.0,
	}
}

// EncodeWindow は対象マスを中心とした5x5の盤面情報をAI入力に変換します
// 値の意味: 0-8 = 開封済みの数字, -1 = 未開封, -2 = 旗, 9 = 盤面外
func EncodeWindow(b *game.Board, tx, ty int) []float64 {
	input := make([]float64, 0, 25)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny := tx+dx, ty+dy
			val := 9.0
			if b.InBounds(nx, ny) {
				cell := b.Cells[ny][nx]
				switch cell.State {
				case game.StateRevealed:
					val = float64(cell.NeighborCount)
				case game.StateFlagged:
					val = -2.0
				default:
					val = -1.0
				}
			}
			input = append(input, val)
		}
	}
	return input
}

type pos struct{ x, y int }

// neighborsInfo は数字マスの周囲の未開封数・旗数・未開封マス一覧を返します
func neighborsInfo(b *game.Board, cx, cy int) (totalHidden int, flags int, hiddenList []pos) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := cx+dx, cy+dy
			if !b.InBounds(nx, ny) {
				continue
			}
			switch b.Cells[ny][nx].State {
			case game.StateFlagged:
				flags++
			case game.StateHidden, game.StateQuestioned:
				totalHidden++
				hiddenList = append(hiddenList, pos{nx, ny})
			}
		}
	}
	return
}
