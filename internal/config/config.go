package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	// 输入输出目录
	Input struct {
		Dir string `yaml:"dir"`
	} `yaml:"input"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	// TTS 设置
	TTS struct {
		Rate   string `yaml:"rate"`
		Volume string `yaml:"volume"`
		Pitch  string `yaml:"pitch"`
		// 角色音色覆盖：narration 外的角色 → Edge voice ID
		Voices map[string]string `yaml:"voices"`
		// 独白音色按日期单双数切换；0 表示取运行日期的日，
		// 指定为正数可固定当日取值（便于复现）
		NarrationDay int `yaml:"narration_day"`
	} `yaml:"tts"`

	// 外部工具
	FFmpeg string `yaml:"ffmpeg"`

	// 日志级别：debug/info/warn/error
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Dir = "input"
	cfg.Output.Dir = "output"

	cfg.TTS.Rate = "+0%"
	cfg.TTS.Volume = "+0%"
	cfg.TTS.Pitch = "+0Hz"
	cfg.TTS.NarrationDay = 0

	cfg.FFmpeg = "ffmpeg"
	cfg.LogLevel = "info"

	return cfg
}

// Load 从文件加载配置，未设置的字段保持默认值
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
