package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ainstein-ai-api/internal/domain/service"
	"ainstein-ai-api/pkg/logger"
	"ainstein-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// Client 真实提供商的 Generator 实现：
// 负责系统消息、参数默认值、单次超时、熔断与指标，并把所有失败吞掉为结构化结果。
type Client struct {
	provider ChatProvider
	settings Settings
	cost     *CostEstimator
	breaker  *Breaker
}

// NewClient 包装提供商
func NewClient(provider ChatProvider, s Settings) *Client {
	s = s.WithDefaults()
	return &Client{
		provider: provider,
		settings: s,
		cost:     NewCostEstimator(s.CostPerToken, s.ModelRates),
		breaker:  NewBreaker(s.Breaker.MaxFailures, s.Breaker.Timeout),
	}
}

func (c *Client) Name() string { return c.provider.Name() }

// ListModels 委托给提供商；不经过熔断器
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ml, ok := c.provider.(ModelLister)
	if !ok {
		return nil, ErrModelListUnsupported
	}
	ctx, span := tracer.Start(ctx, "llm.Client.ListModels")
	defer span.End()
	callCtx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()
	models, err := ml.ListModels(callCtx)
	if err != nil {
		span.RecordError(err)
	}
	return models, err
}

// Generate 阻塞调用提供商，超时由 Settings.Timeout 约束
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (result *GenerationResult) {
	req := c.request(prompt, opts)
	providerName := c.provider.Name()
	ctx = service.WithProvider(ctx, providerName)

	ctx, span := tracer.Start(ctx, "llm.Client.Generate")
	span.SetAttributes(
		attribute.String("llm.provider", providerName),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	)
	defer span.End()

	start := time.Now()
	// 放行后尚未记录结果；panic 时据此补记失败，避免半开试探名额被永久占用
	inFlight := false
	defer func() {
		// 提供商 SDK 的 panic 同样转换为失败结果
		if r := recover(); r != nil {
			if inFlight {
				c.breaker.Record(false)
			}
			result = failedResult(req.Model, providerName, fmt.Sprintf("llm provider panic: %v", r))
		}
		result.DurationMs = int(time.Since(start).Milliseconds())
		status := "success"
		if !result.Success {
			status = "error"
			span.SetAttributes(attribute.String("llm.error", result.Error))
		}
		metrics.LLMCallTotal.WithLabelValues(providerName, req.Model, status).Inc()
		metrics.LLMCallDuration.WithLabelValues(providerName, req.Model).Observe(time.Since(start).Seconds())
		metrics.LLMCircuitState.WithLabelValues(providerName).Set(float64(c.breaker.State()))
	}()

	if err := c.breaker.Allow(); err != nil {
		logger.Warn(ctx, "llm call rejected by circuit breaker", "provider", providerName)
		return failedResult(req.Model, providerName, err.Error())
	}

	// 调用方取消不打断进行中的请求，只有超时可以
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.settings.Timeout)
	defer cancel()

	inFlight = true
	resp, err := c.provider.Chat(callCtx, req)
	inFlight = false
	if err != nil {
		c.breaker.Record(false)
		msg := err.Error()
		if callCtx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("llm request timed out after %s: %s", c.settings.Timeout, msg)
		}
		span.RecordError(err)
		logger.Error(ctx, "llm api error", err, "provider", providerName, "model", req.Model)
		return failedResult(req.Model, providerName, msg)
	}
	c.breaker.Record(true)

	total := resp.TotalTokens
	if total <= 0 {
		total = resp.PromptTokens + resp.CompletionTokens
	}
	model := req.Model
	if strings.TrimSpace(resp.Model) != "" {
		model = resp.Model
	}

	result = successResult(resp.Content)
	result.TokensUsed = total
	result.PromptTokens = resp.PromptTokens
	result.CompletionTokens = resp.CompletionTokens
	result.Model = model
	result.Provider = providerName
	result.FinishReason = resp.FinishReason
	result.Cost = c.cost.Estimate(model, total)

	metrics.LLMTokensUsed.WithLabelValues(providerName, model, "prompt").Add(float64(resp.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(providerName, model, "completion").Add(float64(resp.CompletionTokens))
	return result
}

func (c *Client) request(prompt string, opts Options) ChatRequest {
	req := ChatRequest{
		Model:       c.settings.Model,
		System:      c.settings.SystemPrompt,
		User:        buildUserMessage(prompt, opts.AdditionalInstructions),
		MaxTokens:   c.settings.MaxTokens,
		Temperature: c.settings.Temperature,
	}
	if m := strings.TrimSpace(opts.Model); m != "" {
		req.Model = m
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if s := strings.TrimSpace(opts.SystemPrompt); s != "" {
		req.System = s
	}
	return req
}
