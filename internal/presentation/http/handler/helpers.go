package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

// RegisterValidation makes gin's validator report fields by their json name
func RegisterValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// GetActorID extracts the authenticated actor from the request context
func GetActorID(c *gin.Context) *uuid.UUID {
	p, ok := service.PrincipalFromContext(c.Request.Context())
	if !ok || p.ActorID == uuid.Nil {
		return nil
	}
	return &p.ActorID
}

// HasPermission reports whether the authenticated actor holds permission
func HasPermission(c *gin.Context, permission string) bool {
	p, ok := service.PrincipalFromContext(c.Request.Context())
	if !ok {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

func requireActor(c *gin.Context) (uuid.UUID, bool) {
	actorID := GetActorID(c)
	if actorID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *actorID, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body and answers 422 with field errors when it fails validation
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.ValidationError(c, fieldErrors(ve))
		} else {
			response.BadRequest(c, "Invalid request body")
		}
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}

func fieldErrors(ve validator.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func pageParams(c *gin.Context) *pagination.Params {
	var params pagination.Params
	_ = c.ShouldBindQuery(&params)
	params.Validate()
	return &params
}

// forbidden is shorthand for a permission failure detected in a handler
func forbidden(c *gin.Context, message string) {
	response.Error(c, apperror.NewForbiddenError(message))
}
