package metrics

// Config 指标配置
//
//	metrics:
//	  enabled: true
//	  service_name: "discovery"
//	  version: "v1.0.0"
//	  port: 9090
//	  path: "/metrics"
type Config struct {
	// Enabled 为 false 时 New 返回空实现
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`

	// ServiceName 写入 Resource 的 service.name
	ServiceName string `yaml:"service_name" json:"service_name" mapstructure:"service_name"`

	// Version 写入 Resource 的 service.version
	Version string `yaml:"version" json:"version" mapstructure:"version"`

	// Port 大于 0 且 Path 非空时启动 Prometheus HTTP 服务
	Port int `yaml:"port" json:"port" mapstructure:"port"`

	// Path 以 "/" 开头
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		c.ServiceName = "discovery"
	}
	if c.Port < 0 || c.Port > 65535 {
		return ErrInvalidConfig
	}
	if c.Path != "" && c.Path[0] != '/' {
		return ErrInvalidConfig
	}
	return nil
}
