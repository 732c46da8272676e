package identify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseGuess_PlainJSON 解析裸 JSON
func TestParseGuess_PlainJSON(t *testing.T) {
	guess, err := ParseGuess(`{"name":"Cordless Drill","description":"18V drill","category":"Power Tools","model":"DCD771C2"}`)
	require.NoError(t, err)
	assert.Equal(t, "Cordless Drill", guess.Name)
	assert.Equal(t, "18V drill", guess.Description)
	assert.Equal(t, "Power Tools", guess.Category)
	require.NotNil(t, guess.Model)
	assert.Equal(t, "DCD771C2", *guess.Model)
}

// TestParseGuess_CodeFence 去除 markdown 代码块包裹
func TestParseGuess_CodeFence(t *testing.T) {
	content := "```json\n{\"name\":\"Drill\"}\n```"
	guess, err := ParseGuess(content)
	require.NoError(t, err)
	assert.Equal(t, "Drill", guess.Name)
	assert.Equal(t, "Other", guess.Category)
	assert.Nil(t, guess.Model)
}

// TestParseGuess_CodeFenceNoLanguage 无语言标签的代码块
func TestParseGuess_CodeFenceNoLanguage(t *testing.T) {
	content := "```\n{\"name\":\"Saw\",\"category\":\"Hand Tools\"}\n```"
	guess, err := ParseGuess(content)
	require.NoError(t, err)
	assert.Equal(t, "Saw", guess.Name)
	assert.Equal(t, "Hand Tools", guess.Category)
}

// TestParseGuess_EmptyObject 空对象填充全部缺省值
func TestParseGuess_EmptyObject(t *testing.T) {
	guess, err := ParseGuess(`{}`)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Tool", guess.Name)
	assert.Equal(t, "Other", guess.Category)
	assert.Empty(t, guess.Description)
	assert.Nil(t, guess.Model)
}

// TestParseGuess_EmptyStrings 空字符串与缺失字段同样处理
func TestParseGuess_EmptyStrings(t *testing.T) {
	guess, err := ParseGuess(`{"name":"","category":"","model":""}`)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Tool", guess.Name)
	assert.Equal(t, "Other", guess.Category)
	assert.Nil(t, guess.Model)
}

// TestParseGuess_Malformed 非 JSON 内容报格式错误
func TestParseGuess_Malformed(t *testing.T) {
	_, err := ParseGuess("I cannot identify this tool.")
	require.Error(t, err)

	var identifyErr *Error
	require.True(t, errors.As(err, &identifyErr))
	assert.Equal(t, KindMalformedResponse, identifyErr.Kind)
	// 原始内容保留在 Raw 中供日志排查
	assert.Equal(t, "I cannot identify this tool.", identifyErr.Raw)
}

// TestStripCodeFence 代码块剥离的边界情况
func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}\n"))
	// 内部的反引号不受影响
	assert.Equal(t, "{\"a\":\"`x`\"}", stripCodeFence("{\"a\":\"`x`\"}"))
}
