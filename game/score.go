package game

import "time"

// winTimeBonusWindow はタイムボーナスの基準時間です
// この時間内にクリアすると残り時間に応じたボーナスが付きます
const winTimeBonusWindow = 60 * time.Second

// scoreReveal は開封1マス分のスコアを加算します
// 周囲0のマス（連鎖を起こすマス）はコンボ対象で、前回のコンボ対象開封から
// 猶予時間内ならチェーンが伸びます。数字マスは基礎点のみで、プレイヤーが
// 直接開いた場合に限りコンボタイマーを切ります（連鎖の途中で開く数字の
// 縁マスはチェーンを切りません）
func (e *Engine) scoreReveal(cell *Cell, now time.Time, direct bool) {
	sc := e.cfg.Score

	if cell.NeighborCount == 0 {
		if !e.run.lastComboAt.IsZero() && now.Sub(e.run.lastComboAt) <= sc.ComboTimeThreshold {
			e.run.ComboCount++
		} else {
			e.run.ComboCount = 1
		}
		if e.run.ComboCount > e.run.BestCombo {
			e.run.BestCombo = e.run.ComboCount
		}
		e.run.lastComboAt = now

		bonus := int(float64(sc.BaseRevealScore) * sc.ComboMultiplier * float64(e.run.ComboCount))
		e.run.Score += sc.BaseRevealScore + bonus
		return
	}

	e.run.Score += sc.BaseRevealScore
	if direct {
		e.run.lastComboAt = time.Time{}
	}
}

// finalizeScore はクリア時の各種ボーナスを加算します
// 旗ボーナスは「旗の数 == 地雷数」の判定のみで、旗の位置が正しいかは
// 検証しません（本家仕様のまま）
func (e *Engine) finalizeScore() {
	sc := e.cfg.Score

	e.run.Score += sc.CompletionBonus
	if e.run.FlagsPlaced == e.cfg.MineCount {
		e.run.Score += sc.PerfectFlagBonus
	}

	remain := winTimeBonusWindow - e.run.EndedAt.Sub(e.run.StartedAt)
	if remain > 0 {
		e.run.Score += int(float64(remain.Milliseconds()) * sc.TimeBonusMultiplier)
	}
}
