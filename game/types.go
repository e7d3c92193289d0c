package game

import "time"

// CellState は1マスの可視状態を表します
type CellState int

const (
	StateHidden     CellState = iota // 未開封
	StateRevealed                    // 開封済み
	StateFlagged                     // 旗
	StateQuestioned                  // はてなマーク
)

// String はビュー層で使う状態名を返します
func (s CellState) String() string {
	switch s {
	case StateRevealed:
		return "opened"
	case StateFlagged:
		return "flagged"
	case StateQuestioned:
		return "question"
	default:
		return "hidden"
	}
}

// Cell は1つのマスの情報を持ちます
// State 以外のフィールドは地雷配置後に変化しません
type Cell struct {
	X, Y          int       // 盤面上の座標
	IsMine        bool      // 地雷かどうか
	NeighborCount int       // 周囲8マスにある地雷の数
	State         CellState // 可視状態（唯一の可変フィールド）
}

// Phase はゲームの大まかなライフサイクル状態です
type Phase int

const (
	PhaseReady   Phase = iota // 初手待ち
	PhaseActive               // プレイ中
	PhaseSuccess              // クリア
	PhaseFailed               // ゲームオーバー
)

// Terminal は終端状態（これ以上コマンドを受け付けない）かどうかを返します
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailed
}

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "ready"
	}
}

// RevealResult は Reveal コマンドの結果種別です
type RevealResult int

const (
	RevealRejected RevealResult = iota // 無効な操作（座標外・開封済み・終了後など）
	RevealOpened                       // 開封成功（ゲーム続行）
	RevealExploded                     // 地雷を踏んだ
	RevealWon                          // この開封でクリア条件を満たした
)

func (r RevealResult) String() string {
	switch r {
	case RevealOpened:
		return "opened"
	case RevealExploded:
		return "exploded"
	case RevealWon:
		return "won"
	default:
		return "rejected"
	}
}

// ScoreConfig は難易度ごとのスコア計算パラメータです
type ScoreConfig struct {
	BaseRevealScore     int           // 1マス開封の基礎点
	ComboMultiplier     float64       // コンボ1段あたりの倍率
	ComboTimeThreshold  time.Duration // コンボが継続する猶予時間
	TimeBonusMultiplier float64       // 残り時間(ミリ秒)に掛けるボーナス係数
	CompletionBonus     int           // クリアボーナス
	PerfectFlagBonus    int           // 旗の数が地雷数と一致した場合のボーナス
}

// Config はエンジン1インスタンスの不変設定です
// 難易度を変える場合は新しいエンジンを作り直します
type Config struct {
	Width        int
	Height       int
	MineCount    int
	DifficultyID string
	Score        ScoreConfig
}

// RunState は1ラウンド分の進行状態です
// Reset のたびに丸ごと作り直されます
type RunState struct {
	Phase             Phase
	FirstClickPending bool      // まだ地雷配置が済んでいないか
	StartedAt         time.Time // 最初の開封時刻（ゼロ値 = 未開始）
	EndedAt           time.Time // 終了時刻（ゼロ値 = 進行中）
	CellsRevealed     int       // 開封済みの安全マス数（地雷は含めない）
	FlagsPlaced       int       // 現在立っている旗の数
	Score             int
	ComboCount        int
	BestCombo         int

	// 直前のコンボ対象開封の時刻。ゼロ値はチェーン切れを意味します
	lastComboAt time.Time
}

// Summary は終了したゲームの集計値です
// 統計・実績系の外部コンポーネントへ渡すための値オブジェクトで、
// エンジン内部への参照は含みません
type Summary struct {
	Difficulty    string        `json:"difficulty"`
	StartedAt     time.Time     `json:"started_at"`
	EndedAt       time.Time     `json:"ended_at"`
	Duration      time.Duration `json:"duration"`
	Success       bool          `json:"success"`
	CellsRevealed int           `json:"cells_revealed"`
	FlagsUsed     int           `json:"flags_used"`
	Score         int           `json:"score"`
	BestCombo     int           `json:"best_combo"`
}
