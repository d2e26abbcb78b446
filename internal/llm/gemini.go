package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// DefaultModel 未配置时使用的 Gemini 模型
const DefaultModel = "gemini-1.5-flash"

// Config 模型配置
type Config struct {
	APIKey string
	Model  string
}

// Gemini 基于 Google Gemini 的流式回答
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini 创建 Gemini 客户端
func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model, logger: logger}, nil
}

// New 按配置选择实现：有 Key 用 Gemini，否则返回 Unconfigured
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Answerer, error) {
	if cfg.APIKey == "" {
		return Unconfigured{}, nil
	}
	return NewGemini(ctx, cfg, logger)
}

// Close 关闭底层连接
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Stream 逐段输出模型回答
func (g *Gemini) Stream(ctx context.Context, req Request, emit Emit) error {
	user, err := UserPrompt(req)
	if err != nil {
		return fmt.Errorf("build prompt: %w", err)
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(SystemPrompt(req.Verbose)))

	g.logger.Debug("llm stream start",
		zap.String("model", g.model),
		zap.Int("insight_keys", len(req.Insights)),
		zap.Bool("verbose", req.Verbose),
	)

	iter := model.GenerateContentStream(ctx, genai.Text(user))
	chunks := 0
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		for _, text := range responseText(resp) {
			if err := emit(text); err != nil {
				return err
			}
			chunks++
		}
	}
	g.logger.Debug("llm stream done", zap.Int("chunks", chunks))
	return nil
}

func responseText(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var out []string
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && t != "" {
				out = append(out, string(t))
			}
		}
	}
	return out
}
