package instance

import (
	"time"

	"github.com/ceyewan/genesis-discovery/clog"
	"github.com/ceyewan/genesis-discovery/metrics"
)

// Option Builder 初始化选项函数
type Option func(*options)

type options struct {
	namespace  string
	deployment DeploymentContext
	logger     clog.Logger
	clock      func() time.Time
	interner   *Interner
	meter      metrics.Meter
	stats      *descriptorStats
}

// WithNamespace 设置主机名宏的命名空间前缀，例如 "eureka." 对应 ${eureka.hostname}
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithDeploymentContext 注入解析 VIP 地址宏所用的属性源
func WithDeploymentContext(ctx DeploymentContext) Option {
	return func(o *options) {
		o.deployment = ctx
	}
}

// WithLogger 注入日志记录器
// 组件内部会自动追加 "instance" namespace
func WithLogger(l clog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l.WithNamespace("instance")
		}
	}
}

// WithClock 替换时间源，测试中用于控制脏标记时间戳
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithInterner 对应用名、VIP 地址和 ASG 名做字符串驻留
func WithInterner(i *Interner) Option {
	return func(o *options) {
		o.interner = i
	}
}

// WithMeter 记录描述符构建、状态变化和脏标记指标
func WithMeter(m metrics.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{
		logger: clog.Discard(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.meter != nil {
		o.stats = newDescriptorStats(o.meter, o.logger)
	}
	return o
}
