package instance

import (
	"os"
	"time"

	"github.com/ceyewan/genesis-discovery/clog"
	"github.com/ceyewan/genesis-discovery/xerrors"
)

// Config 本地实例配置
//
// 通常由 config.Loader.UnmarshalKey("instance", &cfg) 获得。
type Config struct {
	// AppName 应用名，必填
	AppName string `yaml:"app_name" json:"app_name" mapstructure:"app_name"`

	// AppGroupName 应用组名
	AppGroupName string `yaml:"app_group_name" json:"app_group_name" mapstructure:"app_group_name"`

	// HostName 主机名，默认 os.Hostname()
	HostName string `yaml:"host_name" json:"host_name" mapstructure:"host_name"`

	// IPAddr 实例 IP
	IPAddr string `yaml:"ip_addr" json:"ip_addr" mapstructure:"ip_addr"`

	// Port 普通端口，默认 7001
	Port int `yaml:"port" json:"port" mapstructure:"port"`

	// SecurePort 安全端口，默认 7002
	SecurePort int `yaml:"secure_port" json:"secure_port" mapstructure:"secure_port"`

	// PortEnabled 是否启用普通端口，默认 true
	PortEnabled *bool `yaml:"port_enabled" json:"port_enabled" mapstructure:"port_enabled"`

	// SecurePortEnabled 是否启用安全端口，默认 false
	SecurePortEnabled bool `yaml:"secure_port_enabled" json:"secure_port_enabled" mapstructure:"secure_port_enabled"`

	// HomePageURLPath 首页相对路径，默认 "/"
	HomePageURLPath string `yaml:"home_page_url_path" json:"home_page_url_path" mapstructure:"home_page_url_path"`
	HomePageURL     string `yaml:"home_page_url" json:"home_page_url" mapstructure:"home_page_url"`

	// StatusPageURLPath 状态页相对路径，默认 "/Status"
	StatusPageURLPath string `yaml:"status_page_url_path" json:"status_page_url_path" mapstructure:"status_page_url_path"`
	StatusPageURL     string `yaml:"status_page_url" json:"status_page_url" mapstructure:"status_page_url"`

	// HealthCheckURLPath 健康检查相对路径，默认 "/healthcheck"
	HealthCheckURLPath   string `yaml:"health_check_url_path" json:"health_check_url_path" mapstructure:"health_check_url_path"`
	HealthCheckURL       string `yaml:"health_check_url" json:"health_check_url" mapstructure:"health_check_url"`
	SecureHealthCheckURL string `yaml:"secure_health_check_url" json:"secure_health_check_url" mapstructure:"secure_health_check_url"`

	// VIPAddress 支持 ${key} 宏
	VIPAddress       string `yaml:"vip_address" json:"vip_address" mapstructure:"vip_address"`
	SecureVIPAddress string `yaml:"secure_vip_address" json:"secure_vip_address" mapstructure:"secure_vip_address"`

	ASGName string `yaml:"asg_name" json:"asg_name" mapstructure:"asg_name"`

	Metadata map[string]string `yaml:"metadata" json:"metadata" mapstructure:"metadata"`

	// Namespace 主机名宏前缀，例如 "eureka."
	Namespace string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`

	// InitialStatus 注册时的初始状态，默认 STARTING
	InitialStatus string `yaml:"initial_status" json:"initial_status" mapstructure:"initial_status"`

	// LeaseRenewalInterval 心跳间隔，默认 30s
	LeaseRenewalInterval time.Duration `yaml:"lease_renewal_interval" json:"lease_renewal_interval" mapstructure:"lease_renewal_interval"`

	// LeaseDuration 租约时长，默认 90s
	LeaseDuration time.Duration `yaml:"lease_duration" json:"lease_duration" mapstructure:"lease_duration"`
}

func (c *Config) setDefaults() {
	if c.HostName == "" {
		if h, err := os.Hostname(); err == nil {
			c.HostName = h
		}
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.SecurePort == 0 {
		c.SecurePort = DefaultSecurePort
	}
	if c.PortEnabled == nil {
		enabled := true
		c.PortEnabled = &enabled
	}
	if c.HomePageURLPath == "" {
		c.HomePageURLPath = "/"
	}
	if c.StatusPageURLPath == "" {
		c.StatusPageURLPath = "/Status"
	}
	if c.HealthCheckURLPath == "" {
		c.HealthCheckURLPath = "/healthcheck"
	}
	if c.InitialStatus == "" {
		c.InitialStatus = string(StatusStarting)
	}
	if c.LeaseRenewalInterval <= 0 {
		c.LeaseRenewalInterval = DefaultLeaseRenewalInterval
	}
	if c.LeaseDuration <= 0 {
		c.LeaseDuration = DefaultLeaseDuration
	}
}

func (c *Config) validate() error {
	if c.AppName == "" {
		return xerrors.Wrap(ErrInvalidConfig, "app_name is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return xerrors.Wrapf(ErrInvalidConfig, "port out of range: %d", c.Port)
	}
	if c.SecurePort < 0 || c.SecurePort > 65535 {
		return xerrors.Wrapf(ErrInvalidConfig, "secure_port out of range: %d", c.SecurePort)
	}
	if c.LeaseDuration < c.LeaseRenewalInterval {
		return xerrors.Wrapf(ErrInvalidConfig, "lease_duration %s shorter than renewal interval %s",
			c.LeaseDuration, c.LeaseRenewalInterval)
	}
	return nil
}

// NewFromConfig 按配置构建本地实例的描述符
//
// 先设置主机名和端口，再设置 URL 与 VIP 地址，保证相对路径使用最终的主机名和端口。
// cfg 中未填写的字段会被补上默认值。
func NewFromConfig(cfg *Config, opts ...Option) (*Descriptor, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrInvalidConfig, "config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := NewBuilder(opts...)
	if cfg.Namespace != "" {
		b.SetNamespace(cfg.Namespace)
	}

	b.SetAppName(cfg.AppName).
		SetAppGroupName(cfg.AppGroupName).
		SetHostName(cfg.HostName).
		SetIPAddr(cfg.IPAddr).
		SetPort(cfg.Port).
		SetSecurePort(cfg.SecurePort).
		EnablePort(PortUnsecure, *cfg.PortEnabled).
		EnablePort(PortSecure, cfg.SecurePortEnabled).
		SetHomePageURL(cfg.HomePageURLPath, cfg.HomePageURL).
		SetStatusPageURL(cfg.StatusPageURLPath, cfg.StatusPageURL).
		SetHealthCheckURLs(cfg.HealthCheckURLPath, cfg.HealthCheckURL, cfg.SecureHealthCheckURL).
		SetVIPAddress(cfg.VIPAddress).
		SetSecureVIPAddress(cfg.SecureVIPAddress).
		SetASGName(cfg.ASGName).
		SetMetadata(cfg.Metadata).
		SetStatus(ParseStatus(cfg.InitialStatus)).
		SetLeaseInfo(NewLeaseInfo(cfg.LeaseRenewalInterval, cfg.LeaseDuration))

	d, err := b.Build()
	if err != nil {
		return nil, err
	}

	b.opts.logger.Info("local instance descriptor created",
		clog.String("app", d.AppName()),
		clog.String("id", d.ID()),
		clog.String("status_page", d.StatusPageURL()),
		clog.Int("port", d.Port()))
	return d, nil
}
