package game

import (
	_ "embed"
)

//go:embed weights.json
var weightsJSON []byte

// GetWeightsJSON は埋め込まれたAI重みデータを返します
func GetWeightsJSON() []byte {
	return weightsJSON
}
