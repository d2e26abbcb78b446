package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Insights InsightsConfig `toml:"insights"`
	LLM      LLMConfig      `toml:"llm"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int   `toml:"port"`
	DevMode     bool  `toml:"dev_mode"`
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// DataConfig 数据配置
type DataConfig struct {
	// HistoryDSN 上传历史库；默认内存库，不落盘
	HistoryDSN string `toml:"history_dsn"`
}

// InsightsConfig 知识库构建配置
type InsightsConfig struct {
	MaxCategories int `toml:"max_categories"`
}

// LLMConfig 问答模型配置
type LLMConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`  // debug / info / warn / error
	Format string `toml:"format"` // console / json
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8000,
			DevMode:     false,
			MaxUploadMB: 50,
		},
		Data: DataConfig{
			HistoryDSN: "file:vehs_history?mode=memory&cache=shared",
		},
		Insights: InsightsConfig{
			MaxCategories: 50,
		},
		LLM: LLMConfig{
			Model: "gemini-1.5-flash",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 path 加载配置（为空时用 DefaultPath），再应用环境变量覆盖
// 文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case !os.IsNotExist(err):
		return nil, info, err
	}

	applyEnv(config, &info)
	return config, info, nil
}

// applyEnv 环境变量覆盖（部署 / 本地运行）
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("VEHS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
	if v := os.Getenv("VEHS_LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	} else if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("VEHS_HISTORY_DB"); v != "" {
		config.Data.HistoryDSN = v
	}
}

// SaveConfig 保存配置到 path
func SaveConfig(path string, config *AppConfig) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
