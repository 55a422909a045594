package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"
	"go-gin-airport/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// 驗證錯誤以 json 欄位名稱回報
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	fields := map[string][]string{}
	for _, fe := range verrs {
		name := fe.Namespace()
		if _, rest, ok := strings.Cut(name, "."); ok {
			name = rest
		}
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format", Fields: fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

// bindID reads the :id path parameter. A non-numeric id cannot match any
// row, so it is reported as not found.
func bindID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
		return 0, false
	}
	return id, true
}

func bindQuery(c *gin.Context, spec query.Spec, operation string) (query.Query, bool) {
	q, err := query.Parse(spec, c.Request.URL.Query())
	if err != nil {
		handleError(c, err, operation)
		return query.Query{}, false
	}
	return q, true
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn("Validation failed")
		c.JSON(http.StatusBadRequest, errorResponse{Error: errorMessage(verr.Cause, "Invalid input"), Fields: verr.Fields})
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrOutOfRange),
		errors.Is(err, apperrors.ErrSeatTaken),
		errors.Is(err, apperrors.ErrInvalidSchedule),
		errors.Is(err, apperrors.ErrDuplicateCrew),
		errors.Is(err, apperrors.ErrDuplicateName):
		log.Warn("Bad request")
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthenticated):
		log.Warn("Unauthenticated")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case isNotFound(err):
		log.Warn("Not found")
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		log.Warn("Conflict")
		c.JSON(http.StatusConflict, errorResponse{Error: "Seat was taken by a concurrent order, please retry"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		apperrors.ErrAirportNotFound,
		apperrors.ErrRouteNotFound,
		apperrors.ErrAirplaneTypeNotFound,
		apperrors.ErrAirplaneNotFound,
		apperrors.ErrCrewNotFound,
		apperrors.ErrFlightNotFound,
		apperrors.ErrOrderNotFound,
		apperrors.ErrTicketNotFound,
		apperrors.ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}
