package game

import "time"

// 難易度ID
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// DefaultScoreConfig はスコア設定を省略した場合に使われる標準値です
var DefaultScoreConfig = ScoreConfig{
	BaseRevealScore:     10,
	ComboMultiplier:     0.5,
	ComboTimeThreshold:  3 * time.Second,
	TimeBonusMultiplier: 0.05,
	CompletionBonus:     500,
	PerfectFlagBonus:    200,
}

// presets は難易度ごとの既定設定です
// 盤面サイズと地雷数は定番の 初級/中級/上級 構成に合わせています
var presets = map[string]Config{
	DifficultyEasy: {
		Width:        9,
		Height:       9,
		MineCount:    10,
		DifficultyID: DifficultyEasy,
		Score: ScoreConfig{
			BaseRevealScore:     10,
			ComboMultiplier:     0.5,
			ComboTimeThreshold:  3 * time.Second,
			TimeBonusMultiplier: 0.05,
			CompletionBonus:     500,
			PerfectFlagBonus:    200,
		},
	},
	DifficultyNormal: {
		Width:        16,
		Height:       16,
		MineCount:    40,
		DifficultyID: DifficultyNormal,
		Score: ScoreConfig{
			BaseRevealScore:     20,
			ComboMultiplier:     0.5,
			ComboTimeThreshold:  3 * time.Second,
			TimeBonusMultiplier: 0.1,
			CompletionBonus:     1500,
			PerfectFlagBonus:    500,
		},
	},
	DifficultyHard: {
		Width:        30,
		Height:       16,
		MineCount:    99,
		DifficultyID: DifficultyHard,
		Score: ScoreConfig{
			BaseRevealScore:     30,
			ComboMultiplier:     0.6,
			ComboTimeThreshold:  2 * time.Second,
			TimeBonusMultiplier: 0.2,
			CompletionBonus:     5000,
			PerfectFlagBonus:    1000,
		},
	},
}

// ConfigFor は難易度IDに対応する既定設定を返します
func ConfigFor(difficultyID string) (Config, bool) {
	cfg, ok := presets[difficultyID]
	return cfg, ok
}

// Difficulties は定義済みの難易度IDを返します
func Difficulties() []string {
	return []string{DifficultyEasy, DifficultyNormal, DifficultyHard}
}
