package instance

import "time"

const (
	DefaultLeaseRenewalInterval = 30 * time.Second
	DefaultLeaseDuration        = 90 * time.Second
)

// LeaseInfo 心跳与租约时间信息
//
// Descriptor 只持有其引用，不解释其中的字段；续约和过期由注册中心负责。
type LeaseInfo struct {
	RenewalInterval       time.Duration // 客户端心跳间隔
	Duration              time.Duration // 超过该时长未续约即可被剔除
	RegistrationTimestamp time.Time
	LastRenewalTimestamp  time.Time
	EvictionTimestamp     time.Time
	ServiceUpTimestamp    time.Time
}

// NewLeaseInfo 创建租约信息，非正数参数使用默认值
func NewLeaseInfo(renewalInterval, duration time.Duration) *LeaseInfo {
	if renewalInterval <= 0 {
		renewalInterval = DefaultLeaseRenewalInterval
	}
	if duration <= 0 {
		duration = DefaultLeaseDuration
	}
	return &LeaseInfo{
		RenewalInterval: renewalInterval,
		Duration:        duration,
	}
}
