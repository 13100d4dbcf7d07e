// Package metrics 基于 OpenTelemetry 提供计数器与仪表盘，并通过 Prometheus 暴露。
//
// 实例描述符通过 instance.WithMeter 接入，记录构建次数、状态迁移和脏标记清除结果。
//
//	meter, err := metrics.New(&metrics.Config{
//		Enabled:     true,
//		ServiceName: "discovery",
//		Port:        9090,
//		Path:        "/metrics",
//	})
//	if err != nil {
//		return err
//	}
//	defer meter.Shutdown(ctx)
//
//	desc, err := instance.NewBuilder(instance.WithMeter(meter)).SetAppName("svc").Build()
package metrics

import "context"

// Counter 只增不减的累计值
type Counter interface {
	Inc(ctx context.Context, labels ...Label)
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 可任意增减的瞬时值
type Gauge interface {
	Set(ctx context.Context, val float64, labels ...Label)
	Inc(ctx context.Context, labels ...Label)
	Dec(ctx context.Context, labels ...Label)
}

// Meter 指标创建工厂，创建出的指标可在多个 goroutine 中并发使用
type Meter interface {
	Counter(name string, desc string) (Counter, error)
	Gauge(name string, desc string) (Gauge, error)

	// Shutdown 刷新并关闭，通常在进程退出时调用
	Shutdown(ctx context.Context) error
}

// Label 指标标签，值应保持低基数
type Label struct {
	Key   string
	Value string
}

// L 创建标签
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}
