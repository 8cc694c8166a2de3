// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// UserLoginRequest User login request parameters
// 用户登录请求参数，密码不做校验
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"` // User email // 用户邮件
	Password string `json:"password" form:"password"`                    // Ignored // 密码（模拟登录，不校验）
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	ID     string `json:"id"`              // Deterministic user ID // 由邮箱派生的用户 ID
	Email  string `json:"email"`           // Email address // 邮件地址
	Name   string `json:"name"`            // Email local part // 邮箱本地部分
	Avatar string `json:"avatar"`          // Avatar URL // 头像地址
	Token  string `json:"token,omitempty"` // Authentication Token // 认证 Token
}
