package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kbcportal/internal/application/usecase"
	"kbcportal/internal/infrastructure/logger"
)

type CourseHandler struct {
	catalog *usecase.CatalogUseCase
	log     *logger.Logger
}

func NewCourseHandler(catalog *usecase.CatalogUseCase, log *logger.Logger) *CourseHandler {
	return &CourseHandler{catalog: catalog, log: log}
}

// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	groups, err := h.catalog.ListGroups(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": groups})
}

// GET /api/courses/:slug
func (h *CourseHandler) Detail(c *gin.Context) {
	view, err := h.catalog.CourseDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/courses/:slug/lessons/:lessonId
func (h *CourseHandler) Lesson(c *gin.Context) {
	view, err := h.catalog.Lesson(c.Request.Context(), c.Param("slug"), c.Param("lessonId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
