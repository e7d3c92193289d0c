package ai

import (
	"encoding/json"
	"errors"
	"math"
)

// Weights は学習済み重みのJSON構造です
type Weights struct {
	Fc1Weight [][]float64 `json:"fc1_weight"`
	Fc1Bias   []float64   `json:"fc1_bias"`
	Fc2Weight [][]float64 `json:"fc2_weight"`
	Fc2Bias   []float64   `json:"fc2_bias"`
	Fc3Weight [][]float64 `json:"fc3_weight"`
	Fc3Bias   []float64   `json:"fc3_bias"`
}

// layer は全結合1層分の重みとバイアスです
type layer struct {
	weight [][]float64
	bias   []float64
}

// Network は地雷確率を推論する3層MLPです
type Network struct {
	layers [3]layer
}

// NewNetwork はJSONデータからネットワークを初期化します
func NewNetwork(jsonData []byte) (*Network, error) {
	var w Weights
	if err := json.Unmarshal(jsonData, &w); err != nil {
		return nil, err
	}

	n := &Network{layers: [3]layer{
		{weight: w.Fc1Weight, bias: w.Fc1Bias},
		{weight: w.Fc2Weight, bias: w.Fc2Bias},
		{weight: w.Fc3Weight, bias: w.Fc3Bias},
	}}
	for _, l := range n.layers {
		if len(l.weight) == 0 || len(l.weight) != len(l.bias) {
			return nil, errors.New("ai: malformed weights")
		}
	}
	return n, nil
}

// Predict は入力(周囲5x5の25個の数値)を受け取り、地雷確率(0.0~1.0)を返します
func (n *Network) Predict(input []float64) float64 {
	out := input
	for i, l := range n.layers {
		out = l.forward(out)
		if i < len(n.layers)-1 {
			relu(out)
		}
	}
	// 出力層はSigmoidで0~1の確率に変換
	return sigmoid(out[0])
}

// forward は重み行列×入力ベクトル＋バイアスを計算します
func (l layer) forward(in []float64) []float64 {
	out := make([]float64, len(l.weight))
	for i, row := range l.weight {
		sum := l.bias[i]
		for j, w := range row {
			sum += w * in[j]
		}
		out[i] = sum
	}
	return out
}

func relu(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
