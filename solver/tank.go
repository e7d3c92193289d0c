package solver

import (
	"github.com/naoto24kawa/sweep-game-sub000/game"
)

// tankSegmentLimit は1セグメントあたりの全列挙を許す未開封マス数の上限です
// これを超えると組み合わせ爆発するためスキップします
const tankSegmentLimit = 18

// TankSolver は境界マスの全組み合わせをバックトラックで列挙し、
// 確定安全・確定地雷・最小確率の手を導きます
type TankSolver struct {
	Board *game.Board
}

func NewTankSolver(b *game.Board) *TankSolver {
	return &TankSolver{Board: b}
}

// Solve はタンクアルゴリズムを実行し、最も有望な手を返します
// 確定手が見つかればそれを優先し、なければ確率最小の開封手を返します
func (ts *TankSolver) Solve() *Move {
	segments := ts.createSegments()

	var bestMove *Move
	bestProb := 1.0 // 1.0 = 地雷確率100% (最悪)

	// 各セグメントは独立して解けます（連結成分なので制約を共有しない）
	for _, seg := range segments {
		if len(seg.unknowns) > tankSegmentLimit {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 解なし（矛盾）
		}

		// 各マスの地雷確率 = そのマスが地雷になる解の割合
		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			p := seg.unknowns[i]

			// 確定安全 (0%)
			if prob == 0.0 {
				return &Move{X: p.x, Y: p.y, Type: MoveOpen, Strategy: "Tank", Confidence: 1.0}
			}
			// 確定地雷 (100%)
			if prob == 1.0 && ts.Board.Cells[p.y][p.x].State != game.StateFlagged {
				return &Move{X: p.x, Y: p.y, Type: MoveFlag, Strategy: "Tank", Confidence: 1.0}
			}

			// 確率が低いほうが安全
			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: p.x, Y: p.y,
					Type:       MoveOpen,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	return bestMove
}

// --- セグメント（連結成分）管理 ---

type segment struct {
	unknowns []pos  // このセグメントに含まれる未開封マス
	rules    []rule // このセグメント内の数字マス制約
}

type rule struct {
	cells []int // unknownsのインデックスのリスト
	mines int   // 必要な地雷数（旗の分は差し引き済み）
}

func (ts *TankSolver) createSegments() []*segment {
	b := ts.Board

	// 1. 全ての「数字マス」と「それに隣接する未開封マス」の関係をリスト化
	unknownMap := make(map[int]pos) // key: y*w+x
	numberedCells := []pos{}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Cells[y][x]
			if c.State != game.StateRevealed || c.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(b, x, y)
			if flags == c.NeighborCount || len(hidden) == 0 {
				continue // 満たされた数字マスは制約にならない
			}
			for _, h := range hidden {
				unknownMap[h.y*b.Width+h.x] = h
			}
			numberedCells = append(numberedCells, pos{x, y})
		}
	}

	// 2. 連結成分分解
	// 未開封マスをノード、同じ数字マスを共有する関係をエッジとしたグラフを作る
	adj := make(map[int][]int)

	for _, numPos := range numberedCells {
		_, _, hidden := neighborsInfo(b, numPos.x, numPos.y)
		for i := 0; i < len(hidden)-1; i++ {
			u1 := hidden[i].y*b.Width + hidden[i].x
			for j := i + 1; j < len(hidden); j++ {
				u2 := hidden[j].y*b.Width + hidden[j].x
				adj[u1] = append(adj[u1], u2)
				adj[u2] = append(adj[u2], u1)
			}
		}
	}

	visited := make(map[int]bool)
	var segments []*segment

	for key := range unknownMap {
		if visited[key] {
			continue
		}

		// BFSでグループ探索
		groupKeys := []int{}
		queue := []int{key}
		visited[key] = true

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			groupKeys = append(groupKeys, curr)

			for _, n := range adj[curr] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}

		seg := &segment{
			unknowns: make([]pos, len(groupKeys)),
		}
		localIndex := make(map[int]int)
		for i, k := range groupKeys {
			seg.unknowns[i] = unknownMap[k]
			localIndex[k] = i
		}

		// ルール生成
		for _, numPos := range numberedCells {
			_, flags, hidden := neighborsInfo(b, numPos.x, numPos.y)
			if len(hidden) == 0 {
				continue
			}

			// 最初の1つがこのセグメントに含まれていれば残りも全て含まれます
			// （同じ数字マスを共有するマス同士は連結しているため）
			firstKey := hidden[0].y*b.Width + hidden[0].x
			if _, ok := localIndex[firstKey]; !ok {
				continue
			}

			r := rule{
				cells: make([]int, len(hidden)),
				mines: b.Cells[numPos.y][numPos.x].NeighborCount - flags,
			}
			for i, h := range hidden {
				r.cells[i] = localIndex[h.y*b.Width+h.x]
			}
			seg.rules = append(seg.rules, r)
		}
		segments = append(segments, seg)
	}

	return segments
}

// --- 探索ロジック ---

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	solutions := [][]bool{}
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if index == len(seg.unknowns) {
		if ts.isValid(seg, config, true) {
			sol := make([]bool, len(config))
			copy(sol, config)
			*solutions = append(*solutions, sol)
		}
		return
	}

	// 枝刈り
	if !ts.isValid(seg, config, false) {
		return
	}

	// 仮定1: 地雷
	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	// 仮定2: 安全
	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

func (ts *TankSolver) isValid(seg *segment, config []bool, isFinal bool) bool {
	for _, r := range seg.rules {
		mines := 0
		for _, idx := range r.cells {
			if config[idx] {
				mines++
			}
		}

		if isFinal {
			// 最終チェック: 地雷数がぴったり一致すること
			if mines != r.mines {
				return false
			}
		} else {
			// 途中チェック: 既に地雷数がオーバーしていたらアウト
			if mines > r.mines {
				return false
			}
		}
	}
	return true
}
