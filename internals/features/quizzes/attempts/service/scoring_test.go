package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"quizku_backend/internals/features/quizzes/attempts/model"
)

func TestScoreSingle(t *testing.T) {
	for correct := 0; correct < 4; correct++ {
		for selected := -1; selected < 4; selected++ {
			score, passed := ScoreSingle(selected, correct)
			if selected == correct {
				assert.Equal(t, 100, score)
				assert.True(t, passed)
			} else {
				assert.Equal(t, 0, score)
				assert.False(t, passed)
			}
		}
	}
	score, passed := ScoreSingle(model.Unanswered, model.Unanswered)
	assert.Equal(t, 0, score, "unanswered never correct")
	assert.False(t, passed)
}

func TestIsCorrectFollowsSingleQuestionRule(t *testing.T) {
	for correct := 0; correct < 4; correct++ {
		for selected := -1; selected < 4; selected++ {
			_, passed := ScoreSingle(selected, correct)
			a := ScoredAnswer{Selected: selected, Correct: correct}
			assert.Equal(t, passed, a.IsCorrect(), "selected=%d correct=%d", selected, correct)

			res := ScoreMulti([]ScoredAnswer{a})
			score, _ := ScoreSingle(selected, correct)
			assert.Equal(t, score, res.Score, "satu soal: skor multi == skor single")
		}
	}
}

func answersWith(correct, total int) []ScoredAnswer {
	out := make([]ScoredAnswer, total)
	for i := range out {
		out[i] = ScoredAnswer{Selected: model.Unanswered, Correct: i % 4}
		if i < correct {
			out[i].Selected = i % 4
		}
	}
	return out
}

func TestScoreMultiMatchesRoundHalfUp(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for correct := 0; correct <= total; correct++ {
			res := ScoreMulti(answersWith(correct, total))
			want := int(math.Floor(100*float64(correct)/float64(total) + 0.5))
			assert.Equal(t, want, res.Score, "%d/%d", correct, total)
			assert.Equal(t, res.Score >= PassThreshold, res.Passed)
			assert.Equal(t, correct, res.CorrectCount)
		}
	}
}

func TestScoreMultiExamples(t *testing.T) {
	cases := []struct {
		correct, total, score int
		passed                bool
	}{
		{0, 0, 0, false},
		{1, 2, 50, false},
		{2, 3, 67, false},
		{7, 10, 70, true},
		{1, 8, 13, false}, // 12.5 → 13
		{5, 8, 63, false}, // 62.5 → 63
		{10, 10, 100, true},
	}
	for _, tc := range cases {
		res := ScoreMulti(answersWith(tc.correct, tc.total))
		assert.Equal(t, tc.score, res.Score, "%d/%d", tc.correct, tc.total)
		assert.Equal(t, tc.passed, res.Passed)
	}
}
