package service

import (
	"github.com/google/uuid"

	"quizku_backend/internals/features/quizzes/attempts/model"
)

// Ambang lulus untuk tes multi-soal (persen).
const PassThreshold = 70

// ScoredAnswer: satu soal yang dinilai. Selected = model.Unanswered (-1) kalau kosong.
type ScoredAnswer struct {
	QuestionID uuid.UUID
	Selected   int
	Correct    int
}

// IsCorrect: aturan satu soal (ScoreSingle) dipakai per soal.
func (a ScoredAnswer) IsCorrect() bool {
	_, passed := ScoreSingle(a.Selected, a.Correct)
	return passed
}

type ScoreResult struct {
	CorrectCount int  `json:"correct_count"`
	Total        int  `json:"total"`
	Score        int  `json:"score"`
	Passed       bool `json:"passed"`
}

// ScoreSingle: benar → 100 & lulus, selain itu 0. -1 tidak pernah benar.
func ScoreSingle(selected, correct int) (score int, passed bool) {
	if selected != model.Unanswered && selected == correct {
		return 100, true
	}
	return 0, false
}

// ScoreMulti: score = round-half-up(100*benar/total), lulus kalau >= 70.
// Tanpa soal → 0, tidak lulus.
func ScoreMulti(answers []ScoredAnswer) ScoreResult {
	res := ScoreResult{Total: len(answers)}
	if res.Total == 0 {
		return res
	}
	for _, a := range answers {
		if a.IsCorrect() {
			res.CorrectCount++
		}
	}
	// integer: (200c + t) / 2t == floor(100c/t + 0.5)
	res.Score = (200*res.CorrectCount + res.Total) / (2 * res.Total)
	res.Passed = res.Score >= PassThreshold
	return res
}
