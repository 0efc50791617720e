package dto

import (
	"encoding/json"
	"time"

	"github.com/monuchauhan/nios-elearning/internal/catalog"
	"github.com/monuchauhan/nios-elearning/internal/domain"
)

// ChapterSummary is a row of the course outline.
type ChapterSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Order        int        `json:"order"`
	Icon         string     `json:"icon,omitempty"`
	IsFree       bool       `json:"isFree"`
	IsLocked     bool       `json:"isLocked"`
	Completed    bool       `json:"completed"`
	LastAccessed *time.Time `json:"lastAccessed"`
}

// ChaptersResponse lists the outline.
type ChaptersResponse struct {
	Chapters     []ChapterSummary `json:"chapters"`
	HasPurchased bool             `json:"hasPurchased"`
}

// ChapterDetail is an unlocked chapter with its materials. Quizzes are
// summarized so answer keys never leave the server here.
type ChapterDetail struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	Icon        string           `json:"icon,omitempty"`
	IsFree      bool             `json:"isFree"`
	IsLocked    bool             `json:"isLocked"`
	SubChapters []SubChapterView `json:"subChapters"`
}

type SubChapterView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Duration    string        `json:"duration"`
	Materials   MaterialsView `json:"materials"`
}

type MaterialsView struct {
	Videos  []catalog.Media `json:"videos"`
	Audios  []catalog.Media `json:"audios"`
	PDFs    []catalog.Media `json:"pdfs"`
	Quizzes []QuizSummary   `json:"quizzes"`
}

// QuizSummary lists a quiz without its questions.
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
}

// QuizView is a quiz as shown to a learner: no correct answers, no
// explanations.
type QuizView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Options  []catalog.Option `json:"options"`
}

// CheckAnswerRequest payload.
type CheckAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// CheckAnswerResponse reveals the key for one question.
type CheckAnswerResponse struct {
	QuestionID    string `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

// SaveResultRequest payload.
type SaveResultRequest struct {
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Answers        json.RawMessage `json:"answers"`
}

type ProgressItem struct {
	ChapterID    string    `json:"chapterId"`
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"lastAccessed"`
}

type QuizResultItem struct {
	ID             int64           `json:"id"`
	ChapterID      string          `json:"chapterId"`
	QuizID         string          `json:"quizId"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Answers        json.RawMessage `json:"answers"`
	CompletedAt    time.Time       `json:"completedAt"`
}

// ProgressResponse is everything tracked for the caller.
type ProgressResponse struct {
	Progress    []ProgressItem   `json:"progress"`
	QuizResults []QuizResultItem `json:"quizResults"`
}

// SuccessResponse acknowledges a write.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewChapterDetail(ch catalog.Chapter) ChapterDetail {
	subs := make([]SubChapterView, 0, len(ch.SubChapters))
	for _, sub := range ch.SubChapters {
		subs = append(subs, SubChapterView{
			ID:          sub.ID,
			Title:       sub.Title,
			Description: sub.Description,
			Order:       sub.Order,
			Duration:    sub.Duration,
			Materials: MaterialsView{
				Videos:  nonNil(sub.Materials.Videos),
				Audios:  nonNil(sub.Materials.Audios),
				PDFs:    nonNil(sub.Materials.PDFs),
				Quizzes: NewQuizSummaries(sub.Materials.Quizzes),
			},
		})
	}
	return ChapterDetail{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Order:       ch.Order,
		Icon:        ch.Icon,
		IsFree:      ch.IsFree,
		SubChapters: subs,
	}
}

func NewQuizSummaries(quizzes []catalog.Quiz) []QuizSummary {
	out := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, QuizSummary{ID: q.ID, Title: q.Title, Description: q.Description, QuestionCount: len(q.Questions)})
	}
	return out
}

func NewQuizView(q catalog.Quiz) QuizView {
	questions := make([]QuestionView, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, QuestionView{ID: question.ID, Question: question.Question, Options: question.Options})
	}
	return QuizView{ID: q.ID, Title: q.Title, Description: q.Description, Questions: questions}
}

func NewProgressResponse(chapters []domain.ChapterProgress, results []domain.QuizResult) ProgressResponse {
	resp := ProgressResponse{
		Progress:    make([]ProgressItem, 0, len(chapters)),
		QuizResults: make([]QuizResultItem, 0, len(results)),
	}
	for _, p := range chapters {
		resp.Progress = append(resp.Progress, ProgressItem{ChapterID: p.ChapterID, Completed: p.Completed, LastAccessed: p.LastAccessed})
	}
	for _, r := range results {
		resp.QuizResults = append(resp.QuizResults, QuizResultItem{
			ID:             r.ID,
			ChapterID:      r.ChapterID,
			QuizID:         r.QuizID,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Answers:        r.Answers,
			CompletedAt:    r.CompletedAt,
		})
	}
	return resp
}

func nonNil(media []catalog.Media) []catalog.Media {
	if media == nil {
		return []catalog.Media{}
	}
	return media
}
