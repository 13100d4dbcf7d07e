package instance

import (
	"context"

	"github.com/ceyewan/genesis-discovery/clog"
	"github.com/ceyewan/genesis-discovery/metrics"
)

const (
	MetricDescriptorsBuilt = "instance_descriptors_built_total"
	MetricStatusChanges    = "instance_status_changes_total"
	MetricDirtyClears      = "instance_dirty_clears_total"
	MetricDirtyDescriptors = "instance_dirty_descriptors"
)

// descriptorStats 描述符指标，nil 表示未启用
type descriptorStats struct {
	built   metrics.Counter
	changes metrics.Counter
	clears  metrics.Counter
	dirty   metrics.Gauge
}

func newDescriptorStats(m metrics.Meter, logger clog.Logger) *descriptorStats {
	s := &descriptorStats{}
	var err error
	if s.built, err = m.Counter(MetricDescriptorsBuilt, "构建的实例描述符数量"); err != nil {
		logger.Warn("create metric failed, metrics disabled", clog.String("metric", MetricDescriptorsBuilt), clog.Error(err))
		return nil
	}
	if s.changes, err = m.Counter(MetricStatusChanges, "实例状态变化次数"); err != nil {
		logger.Warn("create metric failed, metrics disabled", clog.String("metric", MetricStatusChanges), clog.Error(err))
		return nil
	}
	if s.clears, err = m.Counter(MetricDirtyClears, "脏标记清除请求次数，按结果区分"); err != nil {
		logger.Warn("create metric failed, metrics disabled", clog.String("metric", MetricDirtyClears), clog.Error(err))
		return nil
	}
	if s.dirty, err = m.Gauge(MetricDirtyDescriptors, "等待复制的脏描述符数量"); err != nil {
		logger.Warn("create metric failed, metrics disabled", clog.String("metric", MetricDirtyDescriptors), clog.Error(err))
		return nil
	}
	return s
}

func (s *descriptorStats) onBuilt(app string) {
	if s != nil {
		s.built.Inc(context.Background(), metrics.L("app", app))
	}
}

func (s *descriptorStats) onStatusChange(app string, from, to Status) {
	if s != nil {
		s.changes.Inc(context.Background(),
			metrics.L("app", app), metrics.L("from", from.String()), metrics.L("to", to.String()))
	}
}

func (s *descriptorStats) onDirty() {
	if s != nil {
		s.dirty.Inc(context.Background())
	}
}

func (s *descriptorStats) onClear(cleared, wasDirty bool) {
	if s == nil {
		return
	}
	result := "stale"
	if cleared {
		result = "cleared"
		if wasDirty {
			s.dirty.Dec(context.Background())
		}
	}
	s.clears.Inc(context.Background(), metrics.L("result", result))
}
