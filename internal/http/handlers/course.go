package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cecredit-backend/internal/http/response"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GET /api/courses?q=&limit=
func (h *CourseHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	courses, err := h.courseService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}
