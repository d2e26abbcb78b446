package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request 一次问答请求：问题 + 预先聚合好的知识库片段（不含原始行）
type Request struct {
	Question string
	Insights map[string]any
	Verbose  bool
}

// Emit 接收一段流式文本；返回错误时停止生成
type Emit func(chunk string) error

// Answerer 流式回答问题
type Answerer interface {
	Stream(ctx context.Context, req Request, emit Emit) error
}

// MissingKeyMessage 未配置 API Key 时返回给前端的文本
const MissingKeyMessage = "[LLM missing configuration: set VEHS_LLM_API_KEY or GEMINI_API_KEY]"

// Unconfigured 未配置模型时使用，只输出提示文本
type Unconfigured struct{}

// Stream 输出缺少配置的提示
func (Unconfigured) Stream(_ context.Context, _ Request, emit Emit) error {
	return emit(MissingKeyMessage)
}

// Stream 调用 a 并把模型错误转成一段 "[LLM error: ...]" 文本追加到流里
// 客户端断开导致的取消不再输出；原始错误照常返回供调用方记录
func Stream(ctx context.Context, a Answerer, req Request, emit Emit) error {
	err := a.Stream(ctx, req, emit)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return err
	}
	if emitErr := emit(fmt.Sprintf("[LLM error: %v]", err)); emitErr != nil {
		return fmt.Errorf("emit error message: %w", emitErr)
	}
	return err
}
