package instance

import "strings"

// ActionType 标记增量数据中的一条记录是新增、修改还是删除
type ActionType string

const (
	ActionAdded    ActionType = "ADDED"
	ActionModified ActionType = "MODIFIED"
	ActionDeleted  ActionType = "DELETED"
)

// ParseActionType 不区分大小写解析，无法识别时返回空值
func ParseActionType(s string) ActionType {
	for _, a := range []ActionType{ActionAdded, ActionModified, ActionDeleted} {
		if strings.EqualFold(string(a), s) {
			return a
		}
	}
	return ""
}

func (a ActionType) String() string {
	return string(a)
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

func (a *ActionType) UnmarshalText(text []byte) error {
	*a = ParseActionType(string(text))
	return nil
}

// PortType 区分普通端口与安全端口
type PortType int

const (
	PortUnsecure PortType = iota
	PortSecure
)

func (p PortType) String() string {
	if p == PortSecure {
		return "SECURE"
	}
	return "UNSECURE"
}
