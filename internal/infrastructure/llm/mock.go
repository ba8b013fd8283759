package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// MockGenerator 无网络的确定性生成器，用于本地开发、测试与演示租户。
// 同一输入总是得到同一输出；Cost 恒为 0，Success 恒为 true。
type MockGenerator struct {
	model string
}

// NewMockGenerator 创建 Mock
func NewMockGenerator(model string) *MockGenerator {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &MockGenerator{model: model}
}

func (m *MockGenerator) Name() string { return "mock" }


// Generate 根据提示词上下文生成示例内容
func (m *MockGenerator) Generate(_ context.Context, prompt string, opts Options) *GenerationResult {
	input := buildUserMessage(prompt, opts.AdditionalInstructions)
	keyword := mockKeyword(input, opts.Variables)
	content := mockContent(input, keyword, opts.Variables)

	model := m.model
	if s := strings.TrimSpace(opts.Model); s != "" {
		model = s
	}

	tokens := EstimateTokens(input)
	res := successResult(content)
	res.Model = model
	res.Provider = m.Name()
	res.TokensUsed = tokens
	res.PromptTokens = tokens
	res.FinishReason = "stop"
	res.Cost = 0
	return res
}

// EstimateTokens 粗略估算：约 4 个字符一个 Token，向上取整
func EstimateTokens(s string) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

var (
	quotedKeyword  = regexp.MustCompile(`['"“]([^'"”\n]{2,80})['"”]`)
	labeledKeyword = regexp.MustCompile(`(?i)(?:keyword|topic|about)\s*:?\s*([^\n.,;]{2,80})`)
	rsaPattern     = regexp.MustCompile(`\brsa\b`)
	pmaxPattern    = regexp.MustCompile(`\bpmax\b`)
)

func mockKeyword(prompt string, vars map[string]string) string {
	for _, k := range []string{"keyword", "target_keyword", "topic", "product_name"} {
		if v := strings.TrimSpace(vars[k]); v != "" {
			return v
		}
	}
	if m := quotedKeyword.FindStringSubmatch(prompt); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := labeledKeyword.FindStringSubmatch(prompt); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "your topic"
}

func mockContent(prompt, keyword string, vars map[string]string) string {
	ctx := strings.ToLower(prompt)
	pick := variantPicker(prompt)

	switch {
	case rsaPattern.MatchString(ctx) || strings.Contains(ctx, "responsive search ads"):
		return mockRSA(keyword)
	case pmaxPattern.MatchString(ctx) || strings.Contains(ctx, "performance max"):
		return mockPMax(keyword)
	case strings.Contains(ctx, "meta description"):
		return pick([]string{
			"1. Discover everything about %[1]s with our complete guide. Strategies, tips and best practices for success.",
			"1. The definitive guide to %[1]s: advanced techniques and practical advice for excellent results.",
			"1. All you need to know about %[1]s. Insights, strategies and innovative solutions. Read more today.",
		}, keyword)
	case strings.Contains(ctx, "meta title"):
		return pick([]string{
			"1. %[1]s: The Complete Guide\n2. %[1]s Tips That Actually Work\n3. Master %[1]s in 2024",
			"1. Everything About %[1]s\n2. %[1]s Explained Simply\n3. %[1]s: Best Practices",
		}, keyword)
	case strings.Contains(ctx, "article") || strings.Contains(ctx, "blog") || strings.Contains(ctx, "articolo"):
		return mockBlogArticle(keyword)
	case strings.Contains(ctx, "h1") || strings.Contains(ctx, "title") || strings.Contains(ctx, "titolo"):
		return pick([]string{
			"Complete Guide to %[1]s: Strategies and Best Practices",
			"%[1]s: How to Get Excellent Results",
			"Master %[1]s with This Definitive Guide",
			"Everything About %[1]s: Winning Tips and Strategies",
			"%[1]s Explained: From Theory to Practice",
		}, keyword)
	case strings.Contains(ctx, "product") || strings.Contains(ctx, "ecommerce") || strings.Contains(ctx, "prodotto"):
		features := strings.TrimSpace(vars["features"])
		if features == "" {
			features = "advanced features"
		}
		return mockProduct(keyword, features)
	default:
		return fmt.Sprintf("This is demo content about %s generated without contacting an AI provider. "+
			"With a real API key configured, the text would be written by the language model from your prompt "+
			"and optimized for search engines.", keyword)
	}
}

// variantPicker 基于提示词哈希选取固定变体
func variantPicker(prompt string) func(variants []string, keyword string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	sum := h.Sum32()
	return func(variants []string, keyword string) string {
		return fmt.Sprintf(variants[int(sum%uint32(len(variants)))], keyword)
	}
}

func mockBlogArticle(keyword string) string {
	return fmt.Sprintf(`# Complete Guide: %[1]s

## Introduction

Understanding %[1]s has become essential for online success. This guide gives you everything you need to master the topic.

## What You Need to Know About %[1]s

%[1]s is a key element to:
- Improve business performance
- Optimize your digital strategy
- Increase engagement with your audience

## Effective Strategies

### 1. Planning
A well-planned strategy for %[1]s includes market analysis, clear goals and a defined target audience.

### 2. Implementation
Implementing %[1]s requires adequate resources, constant monitoring and continuous optimization.

## Conclusion

%[1]s is a strategic investment that can transform your business. Start applying these strategies today.

*Note: this is demo content generated for testing purposes.*`, keyword)
}

func mockProduct(name, features string) string {
	return fmt.Sprintf(`## %[1]s

Discover %[1]s, the innovative solution offering %[2]s and outstanding performance.

### Key Features
%[2]s

### Benefits
- Guaranteed superior quality
- Remarkable ease of use
- Dedicated customer support

**Order now and see the difference!**`, name, features)
}

func mockRSA(keyword string) string {
	return fmt.Sprintf(`{"titles":["%[1]s Premium Quality","Exclusive %[1]s Offers","Shop %[1]s Today"],`+
		`"descriptions":["Discover our complete %[1]s range. Exclusive offers and fast delivery.",`+
		`"Top quality %[1]s at competitive prices. Dedicated support. Order now!"]}`, keyword)
}

func mockPMax(keyword string) string {
	return fmt.Sprintf(`{"titles":["%[1]s Guaranteed","%[1]s Online Deals"],`+
		`"long_titles":["Discover Our Complete %[1]s Range of High Quality Products"],`+
		`"descriptions":["Superior %[1]s quality with exclusive offers and dedicated assistance."]}`, keyword)
}
