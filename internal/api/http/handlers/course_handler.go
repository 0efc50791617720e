package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/monuchauhan/nios-elearning/internal/api/dto"
	"github.com/monuchauhan/nios-elearning/internal/service"
)

// CourseHandler serves course content, progress and quizzes.
type CourseHandler struct {
	content *service.ContentService
}

// NewCourseHandler constructs handler.
func NewCourseHandler(content *service.ContentService) *CourseHandler {
	return &CourseHandler{content: content}
}

// Course handles GET /api/course.
func (h *CourseHandler) Course(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"course": h.content.Course()})
}

// Chapters handles GET /api/chapters.
func (h *CourseHandler) Chapters(c *fiber.Ctx) error {
	viewer, err := h.content.Viewer(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	summaries, err := h.content.ListChapters(c.UserContext(), viewer)
	if err != nil {
		return err
	}

	resp := dto.ChaptersResponse{
		Chapters:     make([]dto.ChapterSummary, 0, len(summaries)),
		HasPurchased: viewer.HasPurchased,
	}
	for _, s := range summaries {
		item := dto.ChapterSummary{
			ID:          s.Chapter.ID,
			Title:       s.Chapter.Title,
			Description: s.Chapter.Description,
			Order:       s.Chapter.Order,
			Icon:        s.Chapter.Icon,
			IsFree:      s.Chapter.IsFree,
			IsLocked:    s.IsLocked,
		}
		if s.Progress != nil {
			item.Completed = s.Progress.Completed
			last := s.Progress.LastAccessed
			item.LastAccessed = &last
		}
		resp.Chapters = append(resp.Chapters, item)
	}
	return c.JSON(resp)
}

// Chapter handles GET /api/chapters/:id. Locked chapters answer 200 with a
// teaser and hasAccess=false.
func (h *CourseHandler) Chapter(c *fiber.Ctx) error {
	viewer, err := h.content.Viewer(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	view, err := h.content.GetChapter(c.UserContext(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	if !view.HasAccess {
		return c.JSON(fiber.Map{"chapter": view.Teaser, "hasAccess": false})
	}
	return c.JSON(fiber.Map{"chapter": dto.NewChapterDetail(view.Chapter), "hasAccess": true})
}

// Complete handles POST /api/chapters/:id/complete.
func (h *CourseHandler) Complete(c *fiber.Ctx) error {
	id, err := requireUserID(c)
	if err != nil {
		return err
	}
	viewer, err := h.content.Viewer(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := h.content.CompleteChapter(c.UserContext(), viewer, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "chapter marked as completed"})
}

// Progress handles GET /api/progress.
func (h *CourseHandler) Progress(c *fiber.Ctx) error {
	id, err := requireUserID(c)
	if err != nil {
		return err
	}
	progress, err := h.content.Progress(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProgressResponse(progress.Chapters, progress.QuizResults))
}

// Quizzes handles GET /api/chapters/:id/quizzes.
func (h *CourseHandler) Quizzes(c *fiber.Ctx) error {
	viewer, err := h.content.Viewer(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	quizzes, err := h.content.ListQuizzes(c.UserContext(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quizzes": dto.NewQuizSummaries(quizzes)})
}

// Quiz handles GET /api/chapters/:chapterId/quizzes/:quizId.
func (h *CourseHandler) Quiz(c *fiber.Ctx) error {
	viewer, err := h.content.Viewer(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	quiz, err := h.content.GetQuiz(c.UserContext(), viewer, c.Params("chapterId"), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quiz": dto.NewQuizView(quiz)})
}

// CheckAnswer handles POST /api/chapters/:chapterId/quizzes/:quizId/check-answer.
func (h *CourseHandler) CheckAnswer(c *fiber.Ctx) error {
	var req dto.CheckAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	viewer, err := h.content.Viewer(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	check, err := h.content.CheckAnswer(c.UserContext(), viewer, c.Params("chapterId"), c.Params("quizId"), req.QuestionID, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckAnswerResponse{
		QuestionID:    check.QuestionID,
		UserAnswer:    check.UserAnswer,
		CorrectAnswer: check.CorrectAnswer,
		IsCorrect:     check.IsCorrect,
		Explanation:   check.Explanation,
	})
}

// SaveResult handles POST /api/chapters/:chapterId/quizzes/:quizId/save-result.
func (h *CourseHandler) SaveResult(c *fiber.Ctx) error {
	id, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req dto.SaveResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	viewer, err := h.content.Viewer(c.UserContext(), id)
	if err != nil {
		return err
	}
	if _, err := h.content.SaveQuizResult(c.UserContext(), viewer, service.QuizAttempt{
		ChapterID:      c.Params("chapterId"),
		QuizID:         c.Params("quizId"),
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		Answers:        req.Answers,
	}); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "quiz result saved"})
}
