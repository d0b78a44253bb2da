package errors

import stderrors "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// WithMessage 返回同一错误码、不同提示信息的副本。
func (d Definition) WithMessage(message string) Definition {
	return Definition{Code: d.Code, Message: message}
}

// Is 让 errors.Is 按错误码比较，忽略 WithMessage 替换后的提示信息。
func (d Definition) Is(target error) bool {
	t, ok := target.(Definition)
	return ok && t.Code == d.Code
}

// 通用错误。
var (
	InvalidRequest  = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
	Internal        = Definition{Code: "INTERNAL_ERROR", Message: "Internal error"}
)

// 认证相关错误。
var (
	UserNotFound  = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	WrongPassword = Definition{Code: "WRONG_PASSWORD", Message: "Wrong password"}
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden     = Definition{Code: "FORBIDDEN", Message: "Forbidden"}
)

// 打卡模块错误。
var (
	InvalidCheckIn = Definition{Code: "INVALID_CHECKIN", Message: "Invalid check-in"}
)

// 资源库错误。
var (
	ResourceNotFound = Definition{Code: "RESOURCE_NOT_FOUND", Message: "Resource not found"}
)

// 基础设施错误，用于 %w 包装。
var (
	ErrTokenGeneratorNotInitialized = stderrors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = stderrors.New("unexpected signing method")
	ErrInvalidToken                 = stderrors.New("invalid token")
	ErrInvalidTokenClaims           = stderrors.New("invalid token claims")
	ErrInvalidTokenType             = stderrors.New("invalid token type")
	ErrUserIDNotFound               = stderrors.New("user id not found in token")
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:   InvalidRequest,
	TooManyRequests.Code:  TooManyRequests,
	Internal.Code:         Internal,
	UserNotFound.Code:     UserNotFound,
	WrongPassword.Code:    WrongPassword,
	Unauthorized.Code:     Unauthorized,
	Forbidden.Code:        Forbidden,
	InvalidCheckIn.Code:   InvalidCheckIn,
	ResourceNotFound.Code: ResourceNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// As 从错误链中取出 Definition。
func As(err error) (Definition, bool) {
	var def Definition
	if stderrors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}
