// File: internal/api/error_response.go
package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"resource not found"`
}

// MessageResponse 只有訊息的成功回應
// swagger:model api.MessageResponse
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Request approved"`
}

// Fail 建立錯誤回應
func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// OK 建立成功訊息回應
func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
