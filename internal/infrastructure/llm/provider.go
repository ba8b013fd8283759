package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ChatRequest OpenAI Chat Completions 形状的请求
type ChatRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// ChatResponse 提供商返回的归一化结果
type ChatResponse struct {
	Content          string
	FinishReason     string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatProvider 可插拔的 LLM 提供商边界
type ChatProvider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
}

// ProviderConstructor 根据配置构造提供商
type ProviderConstructor func(ctx context.Context, s Settings) (ChatProvider, error)

// ProviderFactory 按名称注册并构造提供商
type ProviderFactory struct {
	mu           sync.RWMutex
	constructors map[string]ProviderConstructor
}

// NewProviderFactory 创建工厂并注册内置提供商（eino / openai / gemini）
func NewProviderFactory() *ProviderFactory {
	f := &ProviderFactory{constructors: make(map[string]ProviderConstructor)}
	f.Register("eino", NewEinoProvider)
	f.Register("openai", NewOpenAIProvider)
	f.Register("gemini", NewGeminiProvider)
	return f
}

// Register 注册或覆盖提供商构造函数
func (f *ProviderFactory) Register(name string, ctor ProviderConstructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[strings.ToLower(strings.TrimSpace(name))] = ctor
}

// New 构造提供商
func (f *ProviderFactory) New(ctx context.Context, s Settings) (ChatProvider, error) {
	name := strings.ToLower(strings.TrimSpace(s.Provider))
	f.mu.RLock()
	ctor, ok := f.constructors[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	p, err := ctor(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", name, err)
	}
	return p, nil
}
