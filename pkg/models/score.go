package models

// ScoreReason explains one deduction or bonus applied to the score.
type ScoreReason struct {
	Reason string  `json:"reason" toon:"reason"`
	Points float64 `json:"points" toon:"points"`
}

// ScoreResult is the score stage's namespace: a bounded 0-10 quality
// score with the reasons behind it.
type ScoreResult struct {
	Score      float64       `json:"score" toon:"score"`
	Deductions []ScoreReason `json:"deductions" toon:"deductions"`
	Bonuses    []ScoreReason `json:"bonuses" toon:"bonuses"`
}
