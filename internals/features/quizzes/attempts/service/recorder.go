package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
	"quizku_backend/internals/features/quizzes/attempts/dto"
	"quizku_backend/internals/features/quizzes/attempts/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
)

var (
	ErrNoAccess         = errors.New("active trial or subscription required")
	ErrTestNotFound     = errors.New("test not found")
	ErrNoQuestions      = errors.New("test has no questions")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptFinalized = errors.New("attempt already finalized")
	ErrDeadlinePassed   = errors.New("attempt deadline has passed")
	ErrInvalidQuestion  = errors.New("question does not belong to this test")
	ErrInvalidAnswer    = errors.New("selected index must be between -1 and 3")
)

const DefaultGrace = 5 * time.Second

// Recorder: siklus attempt NotStarted → Open → Finalized.
// Finalized bersifat terminal; finalisasi kedua tidak pernah menimpa hasil.
type Recorder struct {
	DB     *gorm.DB
	Now    func() time.Time
	Grace  time.Duration
	Timers *Countdown
}

// NewRecorder memasang Countdown yang memfinalisasi attempt dengan alasan timeout.
func NewRecorder(db *gorm.DB, grace, tick time.Duration) *Recorder {
	if grace < 0 {
		grace = DefaultGrace
	}
	r := &Recorder{
		DB:    db,
		Now:   func() time.Time { return time.Now().UTC() },
		Grace: grace,
	}
	r.Timers = NewCountdown(tick, r.expire)
	return r
}

func (r *Recorder) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

func (r *Recorder) expire(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := r.Finalize(ctx, uuid.Nil, id, nil, model.FinishTimeout)
	switch {
	case errors.Is(err, ErrAttemptFinalized):
		// sudah disubmit manual di tick yang sama
	case err != nil:
		log.Printf("[ATTEMPT] auto-finalize gagal attempt=%s: %v", id, err)
	default:
		log.Printf("[ATTEMPT] waktu habis attempt=%s score=%d", id, d.Score)
	}
}

/* =========================================================
   Helpers
========================================================= */

type testInfo struct {
	TestID       uuid.UUID
	TestTitle    string
	CategoryName string
	TimeLimitSec int
}

func (r *Recorder) loadTestInfo(ctx context.Context, testID uuid.UUID) (testInfo, error) {
	var info testInfo
	res := r.DB.WithContext(ctx).
		Table("tests AS t").
		Select(`t.test_id, t.test_title,
			c.test_category_name AS category_name,
			c.test_category_time_limit_sec AS time_limit_sec`).
		Joins("JOIN test_categories c ON c.test_category_id = t.test_category_id").
		Where("t.test_id = ?", testID).
		Limit(1).
		Scan(&info)
	if res.Error != nil {
		return info, res.Error
	}
	if res.RowsAffected == 0 {
		return info, ErrTestNotFound
	}
	return info, nil
}

func (r *Recorder) loadQuestions(ctx context.Context, testID uuid.UUID) ([]testModel.TestQuestionModel, error) {
	var qs []testModel.TestQuestionModel
	err := r.DB.WithContext(ctx).
		Where("test_question_test_id = ?", testID).
		Order("test_question_order_index ASC").
		Find(&qs).Error
	return qs, err
}

// findAttempt: userID uuid.Nil = tanpa filter pemilik (timer/sweep).
func (r *Recorder) findAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*model.TestAttemptModel, error) {
	q := r.DB.WithContext(ctx).Where("test_attempt_id = ?", attemptID)
	if userID != uuid.Nil {
		q = q.Where("test_attempt_user_id = ?", userID)
	}
	var a model.TestAttemptModel
	if err := q.First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ElapsedSeconds: floor(completed - started), di-clamp ke [0, limitSec].
func ElapsedSeconds(started, completed time.Time, limitSec int) int {
	secs := int(completed.Sub(started) / time.Second)
	if secs < 0 {
		return 0
	}
	if limitSec > 0 && secs > limitSec {
		return limitSec
	}
	return secs
}

func remainingSeconds(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

/* =========================================================
   Start
========================================================= */

// Start membuat attempt open dan memasang countdown.
// Gagal menulis → error (tanpa id), tidak pernah diabaikan.
func (r *Recorder) Start(ctx context.Context, userID, testID uuid.UUID) (*dto.StartAttemptResponse, error) {
	now := r.now()
	if st := access.LoadStatus(ctx, r.DB, userID, now); !access.Can(st, access.CapTakeTests) {
		return nil, ErrNoAccess
	}

	info, err := r.loadTestInfo(ctx, testID)
	if err != nil {
		return nil, err
	}
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&testModel.TestQuestionModel{}).
		Where("test_question_test_id = ?", testID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoQuestions
	}

	a := &model.TestAttemptModel{
		TestAttemptUserID:     userID,
		TestAttemptTestID:     testID,
		TestAttemptStatus:     model.AttemptOpen,
		TestAttemptStartedAt:  now,
		TestAttemptDeadlineAt: now.Add(time.Duration(info.TimeLimitSec) * time.Second),
	}
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	if r.Timers != nil {
		r.Timers.Arm(a.TestAttemptID, a.TestAttemptDeadlineAt.Sub(now))
	}
	log.Printf("[ATTEMPT] start attempt=%s user=%s test=%s limit=%ds", a.TestAttemptID, userID, testID, info.TimeLimitSec)

	return &dto.StartAttemptResponse{
		TestAttemptID: a.TestAttemptID,
		TestID:        testID,
		StartedAt:     a.TestAttemptStartedAt,
		DeadlineAt:    a.TestAttemptDeadlineAt,
		TimeLimitSec:  info.TimeLimitSec,
	}, nil
}

// ResumeOrStart: attempt open milik user untuk test ini yang belum lewat deadline
// dipakai ulang (reload halaman); kalau tidak ada, Start.
func (r *Recorder) ResumeOrStart(ctx context.Context, userID, testID uuid.UUID) (uuid.UUID, error) {
	var open model.TestAttemptModel
	err := r.DB.WithContext(ctx).
		Where("test_attempt_user_id = ? AND test_attempt_test_id = ? AND test_attempt_completed_at IS NULL", userID, testID).
		Where("test_attempt_deadline_at > ?", r.now()).
		Order("test_attempt_started_at DESC").
		First(&open).Error
	if err == nil {
		return open.TestAttemptID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}
	res, err := r.Start(ctx, userID, testID)
	if err != nil {
		return uuid.Nil, err
	}
	return res.TestAttemptID, nil
}

/* =========================================================
   Draft
========================================================= */

// SaveDraft menyimpan pilihan sementara selama attempt masih open dan belum lewat deadline.
func (r *Recorder) SaveDraft(ctx context.Context, userID, attemptID, questionID uuid.UUID, selected int) error {
	if selected < model.Unanswered || selected >= testModel.AnswerChoices {
		return ErrInvalidAnswer
	}
	a, err := r.findAttempt(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if a.IsFinalized() {
		return ErrAttemptFinalized
	}
	if r.now().After(a.TestAttemptDeadlineAt) {
		return ErrDeadlinePassed
	}

	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&testModel.TestQuestionModel{}).
		Where("test_question_id = ? AND test_question_test_id = ?", questionID, a.TestAttemptTestID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidQuestion
	}

	drafts := a.Drafts()
	drafts[questionID] = selected
	res := r.DB.WithContext(ctx).
		Model(&model.TestAttemptModel{}).
		Where("test_attempt_id = ? AND test_attempt_completed_at IS NULL", a.TestAttemptID).
		Update("test_attempt_draft_answers", model.EncodeDrafts(drafts))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttemptFinalized
	}
	return nil
}

/* =========================================================
   Finalize
========================================================= */

// Finalize: Open → Finalized, paling banyak sekali per attempt.
// Jawaban yang dikirim menimpa draft; soal tanpa jawaban = -1.
// Kalau attempt sudah final, hasil tersimpan dikembalikan bersama ErrAttemptFinalized.
func (r *Recorder) Finalize(
	ctx context.Context,
	userID, attemptID uuid.UUID,
	answers map[uuid.UUID]int,
	reason model.FinishReason,
) (*dto.AttemptDetail, error) {
	if !reason.Valid() {
		reason = model.FinishSubmitted
	}
	a, err := r.findAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if a.IsFinalized() {
		return r.finalizedResult(ctx, a.TestAttemptID)
	}

	info, err := r.loadTestInfo(ctx, a.TestAttemptTestID)
	if err != nil {
		return nil, err
	}
	questions, err := r.loadQuestions(ctx, a.TestAttemptTestID)
	if err != nil {
		return nil, err
	}

	completedAt := r.now()
	if completedAt.After(a.TestAttemptDeadlineAt.Add(r.Grace)) {
		completedAt = a.TestAttemptDeadlineAt
		reason = model.FinishTimeout
	}
	elapsed := ElapsedSeconds(a.TestAttemptStartedAt, completedAt, info.TimeLimitSec)

	selections := a.Drafts()
	for id, v := range answers {
		selections[id] = v
	}
	scored := make([]ScoredAnswer, 0, len(questions))
	for _, q := range questions {
		sel := model.Unanswered
		if v, ok := selections[q.TestQuestionID]; ok && v >= model.Unanswered && v < testModel.AnswerChoices {
			sel = v
		}
		scored = append(scored, ScoredAnswer{QuestionID: q.TestQuestionID, Selected: sel, Correct: q.TestQuestionCorrectIndex})
	}
	result := ScoreMulti(scored)

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := tx.Model(&model.TestAttemptModel{}).
			Where("test_attempt_id = ? AND test_attempt_completed_at IS NULL", a.TestAttemptID).
			Updates(map[string]any{
				"test_attempt_status":         model.AttemptFinalized,
				"test_attempt_completed_at":   completedAt,
				"test_attempt_time_spent_sec": elapsed,
				"test_attempt_score":          result.Score,
				"test_attempt_passed":         result.Passed,
				"test_attempt_finish_reason":  string(reason),
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrAttemptFinalized
		}
		if len(scored) == 0 {
			return nil
		}
		rows := make([]model.TestAttemptAnswerModel, 0, len(scored))
		for _, s := range scored {
			rows = append(rows, model.TestAttemptAnswerModel{
				TestAttemptAnswerAttemptID:     a.TestAttemptID,
				TestAttemptAnswerQuestionID:    s.QuestionID,
				TestAttemptAnswerSelectedIndex: s.Selected,
				TestAttemptAnswerIsCorrect:     s.IsCorrect(),
			})
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
	if errors.Is(err, ErrAttemptFinalized) {
		return r.finalizedResult(ctx, a.TestAttemptID)
	}
	if err != nil {
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}

	if r.Timers != nil {
		r.Timers.Cancel(a.TestAttemptID)
	}
	log.Printf("[ATTEMPT] finalized attempt=%s reason=%s score=%d passed=%v elapsed=%ds",
		a.TestAttemptID, reason, result.Score, result.Passed, elapsed)

	fresh, err := r.findAttempt(ctx, uuid.Nil, a.TestAttemptID)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, fresh)
}

func (r *Recorder) finalizedResult(ctx context.Context, attemptID uuid.UUID) (*dto.AttemptDetail, error) {
	if r.Timers != nil {
		r.Timers.Cancel(attemptID)
	}
	a, err := r.findAttempt(ctx, uuid.Nil, attemptID)
	if err != nil {
		return nil, err
	}
	d, err := r.detail(ctx, a)
	if err != nil {
		return nil, err
	}
	return d, ErrAttemptFinalized
}

/* =========================================================
   Read
========================================================= */

// Get: attempt milik user. Jawaban benar hanya dibuka setelah final.
func (r *Recorder) Get(ctx context.Context, userID, attemptID uuid.UUID) (*dto.AttemptDetail, error) {
	a, err := r.findAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, a)
}

func (r *Recorder) detail(ctx context.Context, a *model.TestAttemptModel) (*dto.AttemptDetail, error) {
	info, err := r.loadTestInfo(ctx, a.TestAttemptTestID)
	if err != nil {
		return nil, err
	}
	questions, err := r.loadQuestions(ctx, a.TestAttemptTestID)
	if err != nil {
		return nil, err
	}

	d := &dto.AttemptDetail{
		TestAttemptID: a.TestAttemptID,
		TestID:        a.TestAttemptTestID,
		TestTitle:     info.TestTitle,
		CategoryName:  info.CategoryName,
		Status:        a.TestAttemptStatus,
		TimeLimitSec:  info.TimeLimitSec,
		StartedAt:     a.TestAttemptStartedAt,
		DeadlineAt:    a.TestAttemptDeadlineAt,
		CompletedAt:   a.TestAttemptCompletedAt,
		TimeSpentSec:  a.TestAttemptTimeSpentSec,
		Score:         a.TestAttemptScore,
		Passed:        a.TestAttemptPassed,
		FinishReason:  a.TestAttemptFinishReason,
		Questions:     make([]dto.AttemptQuestionView, 0, len(questions)),
	}

	finalized := a.IsFinalized()
	selections := map[uuid.UUID]int{}
	if finalized {
		d.Status = model.AttemptFinalized
		var rows []model.TestAttemptAnswerModel
		if err := r.DB.WithContext(ctx).
			Where("test_attempt_answer_attempt_id = ?", a.TestAttemptID).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			selections[row.TestAttemptAnswerQuestionID] = row.TestAttemptAnswerSelectedIndex
		}
	} else {
		selections = a.Drafts()
		d.RemainingSec = remainingSeconds(a.TestAttemptDeadlineAt, r.now())
		// ticker yang sudah jalan bisa lebih pendek (mis. di-arm ulang setelah restart)
		if r.Timers != nil {
			if left, ok := r.Timers.Remaining(a.TestAttemptID); ok {
				if sec := int(math.Ceil(left.Seconds())); sec < d.RemainingSec {
					d.RemainingSec = max(sec, 0)
				}
			}
		}
	}

	for i := range questions {
		q := &questions[i]
		answers := q.Answers()
		v := dto.AttemptQuestionView{
			QuestionID:    q.TestQuestionID,
			OrderIndex:    q.TestQuestionOrderIndex,
			Text:          q.TestQuestionText,
			ImageURL:      q.TestQuestionImageURL,
			Answers:       answers[:],
			SelectedIndex: model.Unanswered,
		}
		if sel, ok := selections[q.TestQuestionID]; ok {
			v.SelectedIndex = sel
		}
		if finalized {
			correct := q.TestQuestionCorrectIndex
			isCorrect := (ScoredAnswer{Selected: v.SelectedIndex, Correct: correct}).IsCorrect()
			v.CorrectIndex = &correct
			v.IsCorrect = &isCorrect
			if isCorrect {
				d.CorrectCount++
			}
		}
		d.Questions = append(d.Questions, v)
	}
	d.Total = len(questions)
	return d, nil
}

// History: attempt final milik user, terbaru dulu.
func (r *Recorder) History(ctx context.Context, userID uuid.UUID) ([]dto.AttemptHistoryItem, error) {
	var rows []dto.AttemptHistoryItem
	err := r.DB.WithContext(ctx).
		Table("test_attempts AS a").
		Select(`a.test_attempt_id,
			a.test_attempt_test_id AS test_id,
			t.test_title,
			c.test_category_name AS category_name,
			a.test_attempt_score AS score,
			a.test_attempt_passed AS passed,
			a.test_attempt_time_spent_sec AS time_spent_sec,
			a.test_attempt_finish_reason AS finish_reason,
			a.test_attempt_completed_at AS completed_at`).
		Joins("JOIN tests t ON t.test_id = a.test_attempt_test_id").
		Joins("JOIN test_categories c ON c.test_category_id = t.test_category_id").
		Where("a.test_attempt_user_id = ? AND a.test_attempt_completed_at IS NOT NULL", userID).
		Order("a.test_attempt_completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []dto.AttemptHistoryItem{}
	}
	return rows, nil
}

/* =========================================================
   Recovery (sweep + re-arm)
========================================================= */

// SweepExpired memfinalisasi (timeout) attempt open yang sudah lewat deadline+grace.
// Menutup celah kalau proses restart sebelum countdown habis.
func (r *Recorder) SweepExpired(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.Grace)
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).
		Model(&model.TestAttemptModel{}).
		Where("test_attempt_completed_at IS NULL AND test_attempt_deadline_at < ?", cutoff).
		Pluck("test_attempt_id", &ids).Error; err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		_, err := r.Finalize(ctx, uuid.Nil, id, nil, model.FinishTimeout)
		switch {
		case err == nil:
			done++
		case errors.Is(err, ErrAttemptFinalized):
		default:
			log.Printf("[ATTEMPT SWEEP] finalize attempt=%s gagal: %v", id, err)
		}
	}
	return done, nil
}

// RearmOpen memasang ulang countdown untuk attempt open setelah startup.
func (r *Recorder) RearmOpen(ctx context.Context) (int, error) {
	if r.Timers == nil {
		return 0, nil
	}
	var open []model.TestAttemptModel
	if err := r.DB.WithContext(ctx).
		Select("test_attempt_id, test_attempt_deadline_at").
		Where("test_attempt_completed_at IS NULL").
		Find(&open).Error; err != nil {
		return 0, err
	}
	now := r.now()
	for _, a := range open {
		r.Timers.Arm(a.TestAttemptID, a.TestAttemptDeadlineAt.Sub(now))
	}
	return len(open), nil
}
