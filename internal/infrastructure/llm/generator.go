// Package llm 提供内容生成客户端：统一的 Generator 契约、可插拔的 Chat 提供商、
// 占位密钥下的 Mock 实现以及成本估算。
package llm

import (
	"context"
	"strings"
)

// Options 单次生成的可选参数；零值字段使用 Settings 中的默认值
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64

	// SystemPrompt 覆盖默认系统提示词
	SystemPrompt string
	// AdditionalInstructions 追加到 user 消息末尾，不会合并进 system 消息
	AdditionalInstructions string
	// Variables 调用方提供的模板变量，仅供 Mock 提取关键词
	Variables map[string]string
}

// GenerationResult 统一的生成结果。
// 失败时 Success=false、Content=nil、TokensUsed=0、Cost=0，并在 Error 中给出可读原因。
// Cost 为按 Token 线性估算的近似值，不可用于计费。
type GenerationResult struct {
	Content          *string `json:"content"`
	TokensUsed       int     `json:"tokens_used"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	Model            string  `json:"model"`
	Provider         string  `json:"provider"`
	Cost             float64 `json:"cost"`
	Success          bool    `json:"success"`
	Error            string  `json:"error,omitempty"`
	FinishReason     string  `json:"finish_reason,omitempty"`
	DurationMs       int     `json:"duration_ms"`
}

// Text 返回内容文本，失败时为空串
func (r *GenerationResult) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	return *r.Content
}

// Generator 内容生成契约。实现不得向调用方返回 error 或 panic，
// 所有失败都体现在 GenerationResult 中。
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) *GenerationResult
	// Name 实现名称（mock / eino / openai / gemini）
	Name() string
}

func successResult(content string) *GenerationResult {
	c := strings.TrimSpace(content)
	return &GenerationResult{Content: &c, Success: true}
}

func failedResult(model, provider, msg string) *GenerationResult {
	return &GenerationResult{
		Model:    model,
		Provider: provider,
		Success:  false,
		Error:    msg,
	}
}

// buildUserMessage 组装 user 消息：提示词 + 附加说明
func buildUserMessage(prompt, additional string) string {
	additional = strings.TrimSpace(additional)
	if additional == "" {
		return prompt
	}
	return prompt + "\n\nAdditional instructions: " + additional
}
