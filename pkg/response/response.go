package response

import (
	"net/http"

	"match-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`            // 状态码：0表示成功，其他表示错误
	Message string      `json:"message"`         // 响应消息
	Data    interface{} `json:"data,omitempty"`  // 响应数据
	Error   string      `json:"error,omitempty"` // 错误详情（仅在开发环境显示）
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带错误详情的错误响应
func ErrorWithDetails(c *gin.Context, code int, message string, err error) {
	response := Response{
		Code:    code,
		Message: message,
	}

	// 在开发环境下显示错误详情
	if gin.Mode() == gin.DebugMode && err != nil {
		response.Error = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, 401, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	Error(c, 403, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// Conflict 409错误（如重复加入黑名单）
func Conflict(c *gin.Context, message string) {
	Error(c, 409, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// UserInfo 用户信息（隐藏敏感字段）
type UserInfo struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	RealName        string `json:"real_name"`
	Gender          string `json:"gender"`
	Birthdate       string `json:"birthdate,omitempty"`
	CountryID       *uint  `json:"country_id"`
	StateID         *uint  `json:"state_id"`
	CityID          *uint  `json:"city_id"`
	Banned          bool   `json:"banned"`
	EmailVerified   bool   `json:"email_verified"`
	ProfileVerified bool   `json:"profile_verified"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	birthdate := ""
	if user.Birthdate != nil {
		birthdate = user.Birthdate.Format("2006-01-02")
	}

	return &UserInfo{
		ID:              user.ID,
		Email:           user.Email,
		RealName:        user.RealName,
		Gender:          user.Gender,
		Birthdate:       birthdate,
		CountryID:       user.CountryID,
		StateID:         user.StateID,
		CityID:          user.CityID,
		Banned:          user.Banned,
		EmailVerified:   user.EmailVerified,
		ProfileVerified: user.ProfileVerified,
		CreatedAt:       user.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       user.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// LoginResponse 登录响应
type LoginResponse struct {
	User        *UserInfo `json:"user"`
	AccessToken string    `json:"access_token"`
}

// UserListResponse 用户列表响应
type UserListResponse struct {
	Users    []*UserInfo `json:"users"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// DeleteUserResponse 删除用户响应
type DeleteUserResponse struct {
	Success           bool `json:"success"`
	ReceiversNotified int  `json:"receivers_notified"`
}

// BlacklistResponse 黑名单操作响应
type BlacklistResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
