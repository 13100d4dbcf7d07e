// Package config 提供基于 Viper 的配置加载能力，并作为实例描述符的部署属性源。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 环境特定配置 > 基础配置
//   - 热更新：监听配置文件变化并通知订阅者
//   - Lookup 按 key 取字符串，供 ${key} 宏解析使用
//
// 基本使用：
//
//	loader, _ := config.New(&config.Config{
//		Name:      "discovery",
//		Paths:     []string{"./config"},
//		EnvPrefix: "DISCOVERY",
//	}, config.WithLogger(logger))
//	if err := loader.Load(ctx); err != nil {
//		return err
//	}
//
//	var cfg instance.Config
//	_ = loader.UnmarshalKey("instance", &cfg)
//	desc, err := instance.NewFromConfig(&cfg, instance.WithDeploymentContext(loader))
package config

import "strings"

// Config 加载器配置
type Config struct {
	Name       string   // 配置文件名称（不含扩展名），默认 "config"
	Paths      []string // 配置文件搜索路径，默认 [".", "./config"]
	FileType   string   // 配置文件类型 (yaml, json, etc.)，默认 yaml
	EnvPrefix  string   // 环境变量前缀，默认 "DISCOVERY"
	AllowEmpty bool     // 允许没有任何配置项（仅依赖环境变量的部署）
}

// validate 设置默认值
func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{".", "./config"}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "DISCOVERY"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
	return nil
}

// New 创建配置加载器，cfg 为 nil 时使用默认配置。
func New(cfg *Config, opts ...Option) (Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return newLoader(cfg, applyOptions(opts...)), nil
}
