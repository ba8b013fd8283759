// Package eino 把 ChatModel 的 Eino 回调接入链路追踪与调试日志。
// 调用计数与 Token 指标由 llm.Client 统一上报，这里不重复计数。
package eino

import (
	"sync"

	"github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
)

var registerOnce sync.Once

// Init 注册进程级回调；api-gateway 与 job-worker 启动时各调用一次，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		callbacks.AppendGlobalHandlers(newGlobalHandler())
	})
}

func newGlobalHandler() callbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler()).
		Handler()
}
