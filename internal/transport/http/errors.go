package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"kbcportal/internal/application/usecase"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
)

const msgInvalidPayload = "Invalid payload"

// fieldMessages are the user-facing messages per request field.
var fieldMessages = map[string]string{
	"name":     "이름을 입력해 주세요.",
	"email":    "올바른 이메일을 입력해 주세요.",
	"password": "비밀번호는 8자 이상이어야 합니다.",
}

// bindError answers 400 for a request that failed ShouldBindJSON. Field
// validation failures come back as {"error": {"field": ["message"]}}.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string)
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			msg, ok := fieldMessages[name]
			if !ok {
				msg = fe.Error()
			}
			fields[name] = append(fields[name], msg)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPayload})
}

// writeError maps use case errors to HTTP answers.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, domain.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "이미 사용 중인 이메일입니다."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "이메일 또는 비밀번호가 올바르지 않습니다."})
	case errors.Is(err, domain.ErrPendingApproval):
		c.JSON(http.StatusForbidden, gin.H{"error": "승인 대기 중입니다."})
	default:
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
