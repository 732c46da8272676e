package identify

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Identifier 识别服务接口，便于在 handler 测试中替换实现
type Identifier interface {
	Identify(ctx context.Context, imageData []byte, mimeType string) (*ToolGuess, error)
}

// identifyPrompt 要求模型输出固定结构的 JSON，分类被约束到工具分类枚举
const identifyPrompt = `Analyze this image of a tool and provide detailed information about it. Return a JSON object with the following fields:
- name: The specific name/model of the tool (e.g., "DeWalt 20V Cordless Drill")
- description: A detailed description of the tool, its features, and typical uses (2-3 sentences)
- category: One of: "Power Tools", "Hand Tools", "Garden", "Ladders", "Automotive", "Cleaning", or "Other"
- model: The model number if visible, otherwise null

Be specific and helpful. If you can't identify the exact tool, make your best educated guess based on what you see.`

// DefaultModel 默认使用的多模态模型
const DefaultModel = "gpt-4o"

// Client AI 识别客户端
// 每次用户操作只发送一次请求，失败立即返回，由用户决定是否重试
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewClient 创建 AI 识别客户端
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}
}

// Identify 发送单次识别请求并解析结构化结果
func (c *Client) Identify(ctx context.Context, imageData []byte, mimeType string) (*ToolGuess, error) {
	// 上游未指定超时，这里强制一个上限，避免挂起的连接拖死请求
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart(identifyPrompt),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL: dataURI,
							}),
						},
					},
				},
			},
		},
		MaxTokens: openai.Int(1000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		wrapped := wrapProviderError(err)
		// 原始错误只进服务端日志，且脱敏后再记录
		log.Printf("AI identify request failed (%s): %s", wrapped.Kind, Redact(wrapped.Raw))
		return nil, wrapped
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "AI identification failed. The AI returned an empty response.",
		}
	}

	guess, err := ParseGuess(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("Failed to parse AI response: %v", err)
		return nil, err
	}

	return guess, nil
}

var _ Identifier = (*Client)(nil)
