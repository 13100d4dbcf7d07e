package instance

import "strings"

// Status 实例的运行状态
type Status string

const (
	StatusUp           Status = "UP"             // 可以接收流量
	StatusDown         Status = "DOWN"           // 健康检查失败，不要发送流量
	StatusStarting     Status = "STARTING"       // 仍在初始化，不要发送流量
	StatusOutOfService Status = "OUT_OF_SERVICE" // 人为摘除流量
	StatusUnknown      Status = "UNKNOWN"
)

var allStatuses = []Status{StatusUp, StatusDown, StatusStarting, StatusOutOfService, StatusUnknown}

// ParseStatus 不区分大小写解析状态，无法识别时返回 StatusUnknown
func ParseStatus(s string) Status {
	for _, st := range allStatuses {
		if strings.EqualFold(string(st), s) {
			return st
		}
	}
	return StatusUnknown
}

func (s Status) String() string {
	return string(s)
}

// MarshalText 实现 encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，从不返回错误
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
