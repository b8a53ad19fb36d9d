package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kbcportal/internal/application/usecase"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
)

// AdminHandler serves course administration. Every route sits behind
// middleware.RequireAdmin.
type AdminHandler struct {
	admin *usecase.AdminUseCase
	log   *logger.Logger
}

func NewAdminHandler(admin *usecase.AdminUseCase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

type reorderCoursesReq struct {
	OrderedIDs interface{} `json:"orderedIds"`
}

type reorderVideosReq struct {
	CourseID        interface{} `json:"courseId"`
	OrderedVideoIDs interface{} `json:"orderedVideoIds"`
}

type deleteCourseReq struct {
	ID interface{} `json:"id"`
}

type createCourseReq struct {
	Title            string   `json:"title"`
	SelectedVideoIDs []string `json:"selectedVideoIds"`
}

type updateCourseReq struct {
	ID          uint    `json:"id" binding:"required"`
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Instructor  *string `json:"instructor"`
	Level       *string `json:"level"`
	LastUpdated *string `json:"lastUpdated"`
	HeroVimeoID *string `json:"heroVimeoId"`
	Status      *string `json:"status"`
}

// GET /admin/courses?project=
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.admin.Dashboard(c.Request.Context(), c.Query("project"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /admin/courses
func (h *AdminHandler) Create(c *gin.Context) {
	var req createCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	course, err := h.admin.CreateCourse(c.Request.Context(), req.Title, req.SelectedVideoIDs)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": course.ID, "slug": course.Slug})
}

// POST /admin/courses/update
func (h *AdminHandler) Update(c *gin.Context) {
	var req updateCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	course, err := h.admin.UpdateCourse(c.Request.Context(), req.ID, domain.CourseUpdate{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Instructor:  req.Instructor,
		Level:       req.Level,
		LastUpdated: req.LastUpdated,
		HeroVimeoID: req.HeroVimeoID,
		Status:      req.Status,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "course": course})
}

// The three handlers below read the body leniently: a body that is not JSON
// reaches the use case as empty values, which reject it with 400.

// POST /admin/courses/reorder
func (h *AdminHandler) ReorderCourses(c *gin.Context) {
	var req reorderCoursesReq
	_ = c.ShouldBindJSON(&req)
	if err := h.admin.ReorderCourses(c.Request.Context(), req.OrderedIDs); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /admin/courses/videos/reorder
func (h *AdminHandler) ReorderVideos(c *gin.Context) {
	var req reorderVideosReq
	_ = c.ShouldBindJSON(&req)
	if err := h.admin.ReplaceVideoOrder(c.Request.Context(), req.CourseID, req.OrderedVideoIDs); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /admin/courses/delete
func (h *AdminHandler) Delete(c *gin.Context) {
	var req deleteCourseReq
	_ = c.ShouldBindJSON(&req)
	if err := h.admin.DeleteCourse(c.Request.Context(), req.ID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
