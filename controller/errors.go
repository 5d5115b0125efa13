package controller

import (
	"errors"
	"net/http"
	"strings"

	"wastewise-backend/middelware"
	"wastewise-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusForError maps a classified error to its HTTP status and APIError type.
// Token failures are checked first because they are wrapped in a Forbidden.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrTokenMismatch), errors.Is(err, models.ErrTokenExpired):
		return http.StatusForbidden, models.ErrorTypeVerification
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, models.ErrorTypeAuthentication
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrorTypeAuthorization
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrorTypeNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict, models.ErrorTypeInvalidTransition
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict, models.ErrorTypeConflict
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, models.ErrorTypeValidation
	default:
		return http.StatusInternalServerError, models.ErrorTypeDatabase
	}
}

// respondError writes the error envelope for err. Internal errors never leak their details.
func respondError(c *gin.Context, message string, err error) {
	status, errType := statusForError(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = "internal error"
	}
	c.JSON(status, models.APIResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
			Field:   models.ErrorField(err),
		},
	})
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Status:  "success",
		Code:    status,
		Message: message,
		Data:    data,
	})
}

func respondBadRequest(c *gin.Context, details, field string) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: "Invalid request",
		Error: &models.APIError{
			Type:    models.ErrorTypeValidation,
			Details: details,
			Field:   field,
		},
	})
}

// bindJSON decodes the body into req and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func bindJSON(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, err.Error(), "")
		return false
	}
	return validate(c, v, req)
}

func validate(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := v.Struct(req); err != nil {
		field := ""
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			field = fieldErrors[0].Field()
		}
		respondBadRequest(c, formatValidationErrors(err), field)
		return false
	}
	return true
}

// formatValidationErrors formats validation errors into readable messages
func formatValidationErrors(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fieldError.Field()+" is required")
		case "min":
			messages = append(messages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters")
		case "max":
			messages = append(messages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters")
		case "email":
			messages = append(messages, fieldError.Field()+" must be a valid email address")
		case "oneof":
			messages = append(messages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
		case "gte", "lte":
			messages = append(messages, fieldError.Field()+" is out of range")
		default:
			messages = append(messages, fieldError.Field()+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

// principal returns the authenticated caller or writes a 401
func principal(c *gin.Context) (*models.Principal, bool) {
	p, ok := middelware.PrincipalFrom(c)
	if !ok {
		respondError(c, "Authentication required", models.NewUnauthenticated("user not authenticated"))
		return nil, false
	}
	return p, true
}
