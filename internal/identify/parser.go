package identify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ToolGuess AI 识别结果，缺失字段已填充缺省值
type ToolGuess struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Model       *string `json:"model"`
}

// codeFencePattern 匹配 markdown 代码块包裹（可带 json 语言标签）
var codeFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```$")

// stripCodeFence 去掉模型返回内容外层的三反引号代码块
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if m := codeFencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ParseGuess 解析模型返回的 JSON 并填充缺省值
// 合法但为空的对象是成功而不是失败
func ParseGuess(content string) (*ToolGuess, error) {
	var raw struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Model       string `json:"model"`
	}

	cleaned := stripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "AI identification failed. The AI returned an unexpected format.",
			Raw:     content,
			Err:     err,
		}
	}

	guess := &ToolGuess{
		Name:        raw.Name,
		Description: raw.Description,
		Category:    raw.Category,
	}
	if guess.Name == "" {
		guess.Name = "Unknown Tool"
	}
	if guess.Category == "" {
		guess.Category = "Other"
	}
	if raw.Model != "" {
		guess.Model = &raw.Model
	}

	return guess, nil
}
