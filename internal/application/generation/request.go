// Package generation 编排内容生成：模板解析、配额预占、调用生成器并落库
package generation

import (
	"strings"
	"unicode/utf8"

	"ainstein-ai-api/pkg/errors"
)

// DefaultMaxInstructionChars 附加说明的默认长度上限
const DefaultMaxInstructionChars = 2000

// PageContext 目标页面信息，追加到提示词末尾
type PageContext struct {
	URLPath         string `json:"url_path,omitempty"`
	Keyword         string `json:"keyword,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	ContentBrief    string `json:"content_brief,omitempty"`
}

// Block 生成 "Page Context" 文本块；没有任何字段时返回空串
func (p *PageContext) Block() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	line := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	line("URL Path", p.URLPath)
	line("Target Keyword", p.Keyword)
	line("Meta Title", p.MetaTitle)
	line("Meta Description", p.MetaDescription)
	line("Content Brief", p.ContentBrief)
	if b.Len() == 0 {
		return ""
	}
	return "\n\nPage Context:\n" + strings.TrimRight(b.String(), "\n")
}

// Request 一次生成请求。TemplateID、TemplateAlias、Body 三选一
type Request struct {
	TenantID string

	TemplateID    string
	TemplateAlias string
	// Body 字面提示词（不引用模板）
	Body string

	Variables              map[string]string
	Page                   *PageContext
	AdditionalInstructions string

	Model       string
	MaxTokens   int
	Temperature *float64

	// PromptType 记录用途（模板别名或 custom）
	PromptType string
}

// Validate 校验请求
func (r *Request) Validate(maxInstructionChars int) error {
	if strings.TrimSpace(r.TenantID) == "" {
		return errors.ErrInvalidParam.WithDetail("tenant id is required")
	}
	if r.TemplateID == "" && r.TemplateAlias == "" && strings.TrimSpace(r.Body) == "" {
		return errors.ErrInvalidParam.WithDetail("template_id, template_alias or prompt is required")
	}
	if maxInstructionChars <= 0 {
		maxInstructionChars = DefaultMaxInstructionChars
	}
	if utf8.RuneCountInString(r.AdditionalInstructions) > maxInstructionChars {
		return errors.ErrInvalidParam.WithDetail("additional_instructions exceeds the character limit")
	}
	if r.MaxTokens < 0 {
		return errors.ErrInvalidParam.WithDetail("max_tokens must not be negative")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return errors.ErrInvalidParam.WithDetail("temperature must be between 0 and 2")
	}
	return nil
}
