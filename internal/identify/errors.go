package identify

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/openai/openai-go"
)

// Kind AI 识别失败的分类
type Kind string

const (
	KindProviderAuth        Kind = "provider_auth"
	KindProviderQuota       Kind = "provider_quota"
	KindProviderRateLimit   Kind = "provider_rate_limit"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindMalformedResponse   Kind = "malformed_response"
	KindUnknown             Kind = "unknown"
)

// Error AI 识别错误
// Message 已脱敏，可直接展示给用户；Raw 仅用于服务端日志
type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Raw        string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identify failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("identify failed (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// tokenPattern 匹配疑似凭证的长 token（20 个以上的字母数字、连字符、下划线）
var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9_-]{20,}`)

// Redact 将错误信息中疑似凭证的子串替换为 ***
func Redact(s string) string {
	return tokenPattern.ReplaceAllString(s, "***")
}

// wrapProviderError 将 SDK 错误映射到固定的错误分类
// 上层只见到分类与脱敏后的消息，不依赖 SDK 的错误形状
func wrapProviderError(err error) *Error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// 网络错误、超时等非 API 错误
		return &Error{
			Kind:    KindProviderUnavailable,
			Message: "AI identification failed. The AI service could not be reached. Please try again later.",
			Err:     err,
		}
	}

	status := apiErr.StatusCode
	code := apiErr.Code

	e := &Error{
		HTTPStatus: status,
		Raw:        apiErr.Message,
		Err:        err,
	}

	switch {
	case code == "invalid_api_key" || status == 401 || status == 403:
		e.Kind = KindProviderAuth
		e.Message = "AI identification failed. The AI service is not properly configured. Please contact the site administrator."
	case code == "insufficient_quota":
		e.Kind = KindProviderQuota
		e.Message = "AI identification failed. The AI service has reached its usage limit. Please try again later or contact the site administrator."
	case code == "rate_limit_exceeded" || status == 429:
		e.Kind = KindProviderRateLimit
		e.Message = "AI identification failed. Too many requests to the AI service. Please wait a moment and try again."
	case status >= 500:
		e.Kind = KindProviderUnavailable
		e.Message = "AI identification failed. The AI service is temporarily unavailable. Please try again later."
	default:
		e.Kind = KindUnknown
		e.Message = fmt.Sprintf("AI identification failed: %s", Redact(apiErr.Message))
	}

	return e
}
