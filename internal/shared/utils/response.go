package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/errors"
)

// APIResponse is the envelope of every non-grant endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo carries the request id so callers can quote it when reporting a failure.
type ErrorInfo struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// FailureEnvelope is the body of every failed access grant operation.
type FailureEnvelope struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	ErrorType string         `json:"error_type,omitempty"`
	GrantID   uint           `json:"grant_id,omitempty"`
	DebugInfo map[string]any `json:"debug_info,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	msg := "Resource created successfully"
	if len(message) > 0 {
		msg = message[0]
	}
	SuccessResponse(c, http.StatusCreated, msg, data)
}

// ErrorResponse renders a failure that has no AppError behind it, such as a
// rejected token or an exhausted rate limit.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Error: &ErrorInfo{
			Type:      "error",
			Message:   message,
			RequestID: c.GetString(constants.ContextKeyRequestID),
		},
	})
}

// ErrorResponseWithError maps err to its HTTP status. Anything that is not an
// AppError is reported as an internal error without its text.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	info := &ErrorInfo{
		Type:      string(errors.ErrorTypeInternal),
		Message:   constants.ErrMsgInternalServerError,
		RequestID: c.GetString(constants.ContextKeyRequestID),
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		statusCode = appErr.Code
		info.Type = string(appErr.Type)
		info.Message = appErr.Message
		info.Details = appErr.Details
	}

	c.JSON(statusCode, APIResponse{Error: info})
}

func ListSuccessResponse(c *gin.Context, items interface{}, total int64, page, pageSize int, message ...string) {
	response := APIResponse{
		Success: true,
		Data: ListResponse{
			Items:      items,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: TotalPages(total, pageSize),
		},
	}
	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusOK, response)
}

// GrantFailureResponse renders err with the grant failure envelope. AppError
// details are folded into debug_info next to whatever the operation recorded.
func GrantFailureResponse(c *gin.Context, err error, grantID uint, debugInfo map[string]any) {
	statusCode := http.StatusInternalServerError
	envelope := FailureEnvelope{
		Error:     constants.ErrMsgInternalServerError,
		GrantID:   grantID,
		DebugInfo: debugInfo,
		RequestID: c.GetString(constants.ContextKeyRequestID),
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		statusCode = appErr.Code
		envelope.Error = appErr.Message
		envelope.ErrorType = string(appErr.Type)
		if appErr.Details != "" {
			if envelope.DebugInfo == nil {
				envelope.DebugInfo = map[string]any{}
			}
			envelope.DebugInfo["details"] = appErr.Details
		}
	}

	c.JSON(statusCode, envelope)
}
