package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/satcoach/internal/catalog"
	"github.com/abhisek/satcoach/internal/coach"
	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

// dateLayout is the wire format for test dates.
const dateLayout = "2006-01-02"

type createLearnerRequest struct {
	Name string `json:"name"`
}

type goalRequest struct {
	TestDate    *string `json:"test_date"`
	TargetScore *int    `json:"target_score"`
}

type answerRequest struct {
	ModuleID    string `json:"module_id"`
	SectionName string `json:"section_name"`
	QuestionID  string `json:"question_id"`
	Correct     *bool  `json:"correct"`
}

type practiceRequest struct {
	ModuleID       string `json:"module_id"`
	SectionName    string `json:"section_name"`
	Score          *int   `json:"score"`
	TotalQuestions int    `json:"total_questions"`
}

type lessonRequest struct {
	ModuleID string `json:"module_id"`
	LessonID string `json:"lesson_id"`
}

type scoreRequest struct {
	Answers []personalize.Answer `json:"answers"`
}

type catalogResponse struct {
	Version string           `json:"version"`
	Modules []catalog.Module `json:"modules"`
}

type planResponse struct {
	HasGoal bool                   `json:"has_goal"`
	Plan    *personalize.StudyPlan `json:"plan"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// fail maps coach and store errors onto HTTP status codes.
func (s *Server) fail(c echo.Context, err error) error {
	var invalid *coach.ErrInvalidInput
	switch {
	case errors.As(err, &invalid):
		return badRequest(c, invalid.Error())
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "learner not found"})
	case errors.Is(err, store.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": "concurrent update, try again"})
	}
	s.log.Error("request failed", "path", c.Path(), "learner", c.Param("id"), "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) GetCatalog(c echo.Context) error {
	cat := s.coach.Catalog()
	return c.JSON(http.StatusOK, catalogResponse{Version: cat.Version(), Modules: cat.Modules()})
}

func (s *Server) ScoreSession(c echo.Context) error {
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.coach.ScoreSession(req.Answers)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) CreateLearner(c echo.Context) error {
	var req createLearnerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	l, err := s.coach.CreateLearner(c.Request().Context(), req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (s *Server) ListLearners(c echo.Context) error {
	learners, err := s.coach.Learners(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	if learners == nil {
		learners = []store.Learner{}
	}
	return c.JSON(http.StatusOK, learners)
}

func (s *Server) GetLearner(c echo.Context) error {
	l, err := s.coach.Learner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (s *Server) SetGoal(c echo.Context) error {
	var req goalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var testDate *time.Time
	if req.TestDate != nil && *req.TestDate != "" {
		d, err := time.Parse(dateLayout, *req.TestDate)
		if err != nil {
			return badRequest(c, "test_date must be YYYY-MM-DD")
		}
		testDate = &d
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := s.coach.SetGoal(ctx, id, testDate, req.TargetScore); err != nil {
		return s.fail(c, err)
	}
	l, err := s.coach.Learner(ctx, id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (s *Server) SubmitAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Correct == nil {
		return badRequest(c, "correct is required")
	}
	key := personalize.QuestionKey{ModuleID: req.ModuleID, SectionName: req.SectionName, QuestionID: req.QuestionID}
	res, err := s.coach.SubmitAnswer(c.Request().Context(), c.Param("id"), key, *req.Correct)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) RecordPractice(c echo.Context) error {
	var req practiceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Score == nil {
		return badRequest(c, "score is required")
	}
	rec, err := s.coach.RecordPractice(c.Request().Context(), c.Param("id"), coach.PracticeInput{
		Section:        personalize.SectionKey{ModuleID: req.ModuleID, SectionName: req.SectionName},
		Score:          *req.Score,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) CompleteLesson(c echo.Context) error {
	var req lessonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	key := personalize.LessonKey{ModuleID: req.ModuleID, LessonID: req.LessonID}
	if err := s.coach.CompleteLesson(c.Request().Context(), c.Param("id"), key); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetDashboard(c echo.Context) error {
	d, err := s.coach.Dashboard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) GetRecommendations(c echo.Context) error {
	recs, err := s.coach.Recommendations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Server) GetPlan(c echo.Context) error {
	plan, ok, err := s.coach.Plan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, planResponse{HasGoal: ok, Plan: plan})
}

func (s *Server) GetEstimate(c echo.Context) error {
	est, err := s.coach.Estimate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, est)
}

func (s *Server) GetDueReviews(c echo.Context) error {
	due, err := s.coach.DueReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if due == nil {
		due = []personalize.ReviewItem{}
	}
	return c.JSON(http.StatusOK, due)
}

func (s *Server) GetReadiness(c echo.Context) error {
	r, err := s.coach.Readiness(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}
