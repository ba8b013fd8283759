package llm

import (
	"strings"
	"time"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/pkg/errors"
)

// 内置默认值，优先级最低
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
	DefaultProvider    = "eino"
)

// placeholderKeys 演示/测试环境使用的占位密钥，命中时使用 Mock
var placeholderKeys = map[string]struct{}{
	"sk-test":                                  {},
	"sk-test-key":                              {},
	"sk-test-key-replace-with-real-openai-key": {},
	"your-openai-api-key-here":                 {},
	"fake-key":                                 {},
	"demo-key":                                 {},
}

// IsPlaceholderKey 判断密钥是否为已知占位值
func IsPlaceholderKey(key string) bool {
	_, ok := placeholderKeys[strings.TrimSpace(key)]
	return ok
}

// Settings 构造 Generator 所需的显式配置（管理员覆盖 > 静态配置 > 内置默认值，由 settings.Resolver 合并）
type Settings struct {
	Provider     string
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	SystemPrompt string

	CostPerToken float64
	ModelRates   map[string]float64

	Breaker config.BreakerConfig
}

// WithDefaults 填充缺省字段
func (s Settings) WithDefaults() Settings {
	if strings.TrimSpace(s.Provider) == "" {
		s.Provider = DefaultProvider
	}
	if strings.TrimSpace(s.Model) == "" {
		s.Model = DefaultModel
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		s.Temperature = DefaultTemperature
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(s.SystemPrompt) == "" {
		s.SystemPrompt = config.DefaultSystemPrompt
	}
	if s.CostPerToken <= 0 {
		s.CostPerToken = DefaultCostPerToken
	}
	return s
}

// Validate 校验配置可用性；缺少密钥属于致命配置错误
func (s Settings) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return errors.ErrConfiguration.WithDetail("llm api key not configured in platform settings or config")
	}
	return nil
}
