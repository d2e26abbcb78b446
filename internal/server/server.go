package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "vehs/internal/api/v1"
	"vehs/internal/config"
	"vehs/internal/llm"
	"vehs/internal/logging"
	memstore "vehs/internal/service/store"
	"vehs/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	http    *http.Server
	history *store.Store
	llm     llm.Answerer
	logger  *zap.Logger
}

// NewServer 创建服务器：初始化历史库、模型客户端与路由
func NewServer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	history, err := store.New(cfg.Data.HistoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store: %w", err)
	}

	answerer, err := llm.New(ctx, llm.Config{APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model}, logger)
	if err != nil {
		history.Close()
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	if _, ok := answerer.(llm.Unconfigured); ok {
		logger.Warn("llm api key not configured, streaming answers are disabled")
	}

	router := gin.New()
	router.Use(logging.GinLogger(logger), logging.GinRecovery(logger), cors())

	handler := v1.NewHandler(memstore.NewMemoryStore(), history, answerer, logger, v1.Options{
		MaxCategories: cfg.Insights.MaxCategories,
		MaxUploadMB:   cfg.Server.MaxUploadMB,
	})
	// API 路由
	api := router.Group("/api")
	{
		handler.RegisterRoutes(api)
	}
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		history: history,
		llm:     answerer,
		logger:  logger,
	}, nil
}

// cors 允许前端开发服务器跨域访问
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到 Shutdown
func (s *Server) Run() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭：等待进行中的请求，再释放历史库与模型客户端
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if c, ok := s.llm.(interface{ Close() error }); ok {
		if cerr := c.Close(); cerr != nil {
			s.logger.Warn("close llm client failed", zap.Error(cerr))
		}
	}
	if cerr := s.history.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
