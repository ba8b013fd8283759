package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", ProviderFromContext(ctx))

	ctx = WithWorkflow(ctx, "  meta_title ")
	ctx = WithProvider(ctx, "mock")
	assert.Equal(t, "meta_title", WorkflowFromContext(ctx))
	assert.Equal(t, "mock", ProviderFromContext(ctx))

	// 空值不覆盖已有值
	ctx = WithWorkflow(ctx, "   ")
	assert.Equal(t, "meta_title", WorkflowFromContext(ctx))
}

func TestLLMUsageInputTotal(t *testing.T) {
	assert.Equal(t, 30, LLMUsageInput{PromptTokens: 10, CompletionTokens: 20}.Total())
	assert.Equal(t, 42, LLMUsageInput{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 42}.Total())
}
