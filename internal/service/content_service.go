package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/monuchauhan/nios-elearning/internal/access"
	"github.com/monuchauhan/nios-elearning/internal/catalog"
	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/repository"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

// ContentService serves course content through the access gate.
type ContentService struct {
	catalog  *catalog.Catalog
	users    repository.UserRepository
	progress repository.ProgressRepository
	logger   *zap.Logger
}

// ContentDependencies bundles collaborators for the content service.
type ContentDependencies struct {
	Catalog      *catalog.Catalog
	UserRepo     repository.UserRepository
	ProgressRepo repository.ProgressRepository
	Logger       *zap.Logger
}

func NewContentService(deps ContentDependencies) *ContentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		catalog:  deps.Catalog,
		users:    deps.UserRepo,
		progress: deps.ProgressRepo,
		logger:   logger,
	}
}

// Viewer resolves the caller's entitlement. The flag is read from the store
// on every call so a purchase takes effect on the next request. An empty id
// or a deleted account is an anonymous viewer.
func (s *ContentService) Viewer(ctx context.Context, userID string) (access.Viewer, error) {
	if userID == "" {
		return access.Viewer{}, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return access.Viewer{}, nil
	}
	if err != nil {
		return access.Viewer{}, apperrors.NewInternalError(err)
	}
	return access.Viewer{UserID: user.ID, HasPurchased: user.HasPurchased}, nil
}

func (s *ContentService) Course() catalog.Course {
	return s.catalog.Course()
}

// ChapterSummary is a chapter row of the course outline.
type ChapterSummary struct {
	Chapter  catalog.Chapter
	IsLocked bool
	Progress *domain.ChapterProgress
}

// ListChapters returns the outline with lock state and, for signed-in
// viewers, their progress.
func (s *ContentService) ListChapters(ctx context.Context, viewer access.Viewer) ([]ChapterSummary, error) {
	byChapter := map[string]domain.ChapterProgress{}
	if !viewer.Anonymous() {
		rows, err := s.progress.ListProgress(ctx, viewer.UserID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		for _, p := range rows {
			byChapter[p.ChapterID] = p
		}
	}

	chapters := s.catalog.Chapters()
	out := make([]ChapterSummary, 0, len(chapters))
	for _, ch := range chapters {
		summary := ChapterSummary{Chapter: ch, IsLocked: !viewer.CanOpen(ch)}
		if p, ok := byChapter[ch.ID]; ok {
			p := p
			summary.Progress = &p
		}
		out = append(out, summary)
	}
	return out, nil
}

// ChapterView is either the full chapter or, when locked, only its teaser.
type ChapterView struct {
	HasAccess bool
	Chapter   catalog.Chapter
	Teaser    access.Teaser
}

// GetChapter opens a chapter. A locked chapter is not an error: the view
// carries the teaser and HasAccess=false.
func (s *ContentService) GetChapter(ctx context.Context, viewer access.Viewer, chapterID string) (*ChapterView, error) {
	ch, err := s.chapter(chapterID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanOpen(ch) {
		return &ChapterView{Teaser: access.TeaserOf(ch)}, nil
	}

	if !viewer.Anonymous() {
		if err := s.progress.Touch(ctx, viewer.UserID, ch.ID); err != nil {
			s.logger.Warn("chapter visit not recorded", zap.String("user_id", viewer.UserID), zap.String("chapter_id", ch.ID), zap.Error(err))
		}
	}
	return &ChapterView{HasAccess: true, Chapter: ch}, nil
}

// CompleteChapter marks an accessible chapter as completed.
func (s *ContentService) CompleteChapter(ctx context.Context, viewer access.Viewer, chapterID string) error {
	if viewer.Anonymous() {
		return apperrors.NewUnauthorized("sign in to track progress")
	}
	ch, err := s.openChapter(viewer, chapterID, "purchase required")
	if err != nil {
		return err
	}
	if err := s.progress.Complete(ctx, viewer.UserID, ch.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// LearnerProgress is everything recorded for one user.
type LearnerProgress struct {
	Chapters    []domain.ChapterProgress
	QuizResults []domain.QuizResult
}

func (s *ContentService) Progress(ctx context.Context, userID string) (*LearnerProgress, error) {
	chapters, err := s.progress.ListProgress(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	results, err := s.progress.ListQuizResults(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LearnerProgress{Chapters: chapters, QuizResults: results}, nil
}

// ListQuizzes returns the quizzes of an accessible chapter.
func (s *ContentService) ListQuizzes(_ context.Context, viewer access.Viewer, chapterID string) ([]catalog.Quiz, error) {
	ch, err := s.openChapter(viewer, chapterID, "purchase required to access quizzes")
	if err != nil {
		return nil, err
	}
	return ch.Quizzes(), nil
}

// GetQuiz returns a quiz of an accessible chapter. Callers must strip answer
// keys before rendering it.
func (s *ContentService) GetQuiz(_ context.Context, viewer access.Viewer, chapterID, quizID string) (catalog.Quiz, error) {
	ch, err := s.openChapter(viewer, chapterID, "purchase required to access quiz")
	if err != nil {
		return catalog.Quiz{}, err
	}
	return quizOf(ch, quizID)
}

// AnswerCheck is the verdict for one submitted answer.
type AnswerCheck struct {
	QuestionID    string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	Explanation   string
}

func (s *ContentService) CheckAnswer(_ context.Context, viewer access.Viewer, chapterID, quizID, questionID, answer string) (*AnswerCheck, error) {
	ch, err := s.openChapter(viewer, chapterID, "purchase required")
	if err != nil {
		return nil, err
	}
	quiz, err := quizOf(ch, quizID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(questionID) == "" || strings.TrimSpace(answer) == "" {
		return nil, apperrors.NewValidationError("questionId and answer are required", nil)
	}
	question, ok := quiz.Question(questionID)
	if !ok {
		return nil, apperrors.NewNotFound("question", map[string]any{"questionId": questionID})
	}
	return &AnswerCheck{
		QuestionID:    question.ID,
		UserAnswer:    answer,
		CorrectAnswer: question.CorrectAnswer,
		IsCorrect:     answer == question.CorrectAnswer,
		Explanation:   question.Explanation,
	}, nil
}

// QuizAttempt is a finished quiz submitted for saving.
type QuizAttempt struct {
	ChapterID      string
	QuizID         string
	Score          int
	TotalQuestions int
	Answers        json.RawMessage
}

func (s *ContentService) SaveQuizResult(ctx context.Context, viewer access.Viewer, in QuizAttempt) (*domain.QuizResult, error) {
	if viewer.Anonymous() {
		return nil, apperrors.NewUnauthorized("sign in to save quiz results")
	}
	ch, err := s.openChapter(viewer, in.ChapterID, "purchase required")
	if err != nil {
		return nil, err
	}
	quiz, err := quizOf(ch, in.QuizID)
	if err != nil {
		return nil, err
	}
	if in.TotalQuestions <= 0 || in.TotalQuestions > len(quiz.Questions) {
		return nil, apperrors.NewValidationError("totalQuestions out of range", map[string]any{"max": len(quiz.Questions)})
	}
	if in.Score < 0 || in.Score > in.TotalQuestions {
		return nil, apperrors.NewValidationError("score must be between 0 and totalQuestions", nil)
	}
	if len(in.Answers) > 0 && !json.Valid(in.Answers) {
		return nil, apperrors.NewValidationError("answers must be valid JSON", nil)
	}

	result := &domain.QuizResult{
		UserID:         viewer.UserID,
		ChapterID:      ch.ID,
		QuizID:         quiz.ID,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		Answers:        in.Answers,
	}
	if err := s.progress.SaveQuizResult(ctx, result); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return result, nil
}

func (s *ContentService) chapter(id string) (catalog.Chapter, error) {
	ch, ok := s.catalog.Chapter(id)
	if !ok {
		return catalog.Chapter{}, apperrors.NewNotFound("chapter", map[string]any{"chapterId": id})
	}
	return ch, nil
}

// openChapter looks the chapter up and applies the gate. Denials carry the
// chapter teaser.
func (s *ContentService) openChapter(viewer access.Viewer, id, deniedMsg string) (catalog.Chapter, error) {
	ch, err := s.chapter(id)
	if err != nil {
		return catalog.Chapter{}, err
	}
	if !viewer.CanOpen(ch) {
		return catalog.Chapter{}, apperrors.NewPurchaseRequired(deniedMsg, access.TeaserOf(ch).Details())
	}
	return ch, nil
}

func quizOf(ch catalog.Chapter, quizID string) (catalog.Quiz, error) {
	quiz, ok := ch.Quiz(quizID)
	if !ok {
		return catalog.Quiz{}, apperrors.NewNotFound("quiz", map[string]any{"quizId": quizID})
	}
	return quiz, nil
}
