package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrOutOfBounds は盤面の範囲外座標を指定した場合に返されます
var ErrOutOfBounds = errors.New("game: coordinates out of bounds")

// Board はゲーム盤面全体を持ちます
// マスの書き換えはエンジンのコマンド経由でのみ行う約束です
type Board struct {
	Width  int      // 横のマス数
	Height int      // 縦のマス数
	Cells  [][]Cell // [y][x] でアクセスする2次元配列
}

// NewBoard は全マスが未開封・地雷なしの盤面を初期化して返します
// 地雷の配置は最初の開封まで遅延されます
func NewBoard(width, height int) *Board {
	cells := make([][]Cell, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			cells[y][x] = Cell{X: x, Y: y}
		}
	}

	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// InBounds は座標が盤面内かどうかを返します
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// CellAt は指定座標のマスを返します。範囲外なら ErrOutOfBounds を返します
func (b *Board) CellAt(x, y int) (*Cell, error) {
	if !b.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return &b.Cells[y][x], nil
}

// placeMines は除外マスを避けて地雷をランダムに配置します
// 候補プールから1つずつ引き抜く方式なので同じマスを二度引くことはありません
func (b *Board) placeMines(mineCount, excludeX, excludeY int, rng *rand.Rand) {
	type point struct{ x, y int }
	pool := make([]point, 0, b.Width*b.Height-1)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if x == excludeX && y == excludeY {
				continue // 初手のマスには絶対に地雷を置かない
			}
			pool = append(pool, point{x, y})
		}
	}

	placed := 0
	for placed < mineCount && len(pool) > 0 {
		i := rng.Intn(len(pool))
		p := pool[i]
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		b.Cells[p.y][p.x].IsMine = true
		placed++
	}
}

// calculateNeighbors は全マスの NeighborCount を計算します
// 冪等なので何度呼んでも結果は変わりません
func (b *Board) calculateNeighbors() {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Cells[y][x].IsMine {
				b.Cells[y][x].NeighborCount = 0
				continue
			}
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := x + dx
					ny := y + dy
					if b.InBounds(nx, ny) && b.Cells[ny][nx].IsMine {
						count++
					}
				}
			}
			b.Cells[y][x].NeighborCount = count
		}
	}
}

// MineCount は現在盤面に置かれている地雷の総数を返します
func (b *Board) MineCount() int {
	count := 0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Cells[y][x].IsMine {
				count++
			}
		}
	}
	return count
}

// ParseBoard はテキスト表現から地雷配置済みの盤面を生成します
// '*' が地雷、それ以外の文字は安全なマスです。リプレイやテストで
// 既知の配置を再現するために使います
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("game: empty board text")
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("game: row %d has length %d, want %d", i, len(row), width)
		}
	}

	b := NewBoard(width, len(rows))
	for y, row := range rows {
		for x := 0; x < width; x++ {
			if row[x] == '*' {
				b.Cells[y][x].IsMine = true
			}
		}
	}
	b.calculateNeighbors()
	return b, nil
}

// DebugPrint は現在の盤面をコンソールに表示します
// 未開封のマスは「-」、旗は「F」、地雷は「*」、数字は数字を表示します
func (b *Board) DebugPrint() {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < b.Width; x++ {
		fmt.Fprintf(&sb, "%d ", x%10)
	}
	sb.WriteByte('\n')

	for y := 0; y < b.Height; y++ {
		fmt.Fprintf(&sb, "%d: ", y%10)
		for x := 0; x < b.Width; x++ {
			cell := b.Cells[y][x]
			switch cell.State {
			case StateRevealed:
				if cell.IsMine {
					sb.WriteString("* ")
				} else if cell.NeighborCount == 0 {
					sb.WriteString(". ")
				} else {
					fmt.Fprintf(&sb, "%d ", cell.NeighborCount)
				}
			case StateFlagged:
				sb.WriteString("F ")
			case StateQuestioned:
				sb.WriteString("? ")
			default:
				sb.WriteString("- ")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}
