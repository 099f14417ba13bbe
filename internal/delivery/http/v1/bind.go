package v1

import (
	"errors"
	"strconv"
	"strings"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON binds the body into req and records a typed error on failure.
// Failing custom tags keep the error kind the usecases would have produced.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	message := strings.Join(validation.FormatValidationErrors(err), "; ")
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "time_of_day", "civil_date":
			c.Error(apperror.InvalidTimeFormat(message, err))
			return false
		case "iana_tz":
			c.Error(apperror.InvalidTimezoneOrInstant(message, err))
			return false
		case "weekday":
			c.Error(apperror.InvalidWindowSpecification(message))
			return false
		}
	}
	c.Error(apperror.BadRequest(message))
	return false
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid ID format"))
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
