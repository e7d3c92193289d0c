package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naoto24kawa/sweep-game-sub000/game"
	"github.com/naoto24kawa/sweep-game-sub000/solver"
)

// AI学習用データセット生成ツール
// ソルバーに自動プレイさせ、「運任せ」になった局面の周囲5x5情報と
// 正解ラベル（地雷かどうか）をCSVに記録します

func main() {
	gamesToPlay := 10000
	filename := "dataset.csv"
	log := logrus.New()

	file, err := os.Create(filename)
	if err != nil {
		log.Fatalf("create %s: %v", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// CSVヘッダー: 周囲5x5マスの情報(25個) + 正解ラベル
	header := []string{}
	for i := 0; i < 25; i++ {
		header = append(header, fmt.Sprintf("cell_%d", i))
	}
	header = append(header, "is_mine")
	writer.Write(header)

	log.WithField("games", gamesToPlay).Info("generating dataset")

	recorded := 0
	for i := 0; i < gamesToPlay; i++ {
		recorded += playGameAndRecord(writer, int64(i)+time.Now().UnixNano())
		if i > 0 && i%1000 == 0 {
			log.WithFields(logrus.Fields{"played": i, "samples": recorded}).Info("progress")
		}
	}

	log.WithFields(logrus.Fields{"samples": recorded, "file": filename}).Info("done")
}

func playGameAndRecord(writer *csv.Writer, seed int64) int {
	// AI学習用には「初級」程度の密度が良い
	cfg, _ := game.ConfigFor(game.DifficultyEasy)
	e, err := game.NewWithClock(cfg, time.Now, seed)
	if err != nil {
		panic(err)
	}

	bot := solver.NewSeeded(e, seed)
	recorded := 0

	// 最初の一手は中央。配置が遅延されるので必ず安全です
	e.Reveal(cfg.Width/2, cfg.Height/2)

	for !e.Run().Phase.Terminal() {
		move := bot.NextMove()
		if move == nil {
			break
		}

		// 「運任せ（Guess）」の場面だけを記録する
		// ロジックで解ける場面を学習させても意味がないため
		if move.IsGuess && move.Type == solver.MoveOpen {
			recordState(writer, e.Board(), move.X, move.Y)
			recorded++
		}

		if move.Type == solver.MoveOpen {
			e.Reveal(move.X, move.Y)
		} else {
			e.ToggleFlag(move.X, move.Y)
		}
	}

	return recorded
}

func recordState(writer *csv.Writer, b *game.Board, tx, ty int) {
	row := []string{}
	for _, v := range solver.EncodeWindow(b, tx, ty) {
		row = append(row, strconv.Itoa(int(v)))
	}

	// 正解ラベル（0:安全, 1:地雷）
	label := "0"
	if b.Cells[ty][tx].IsMine {
		label = "1"
	}
	row = append(row, label)

	writer.Write(row)
}
