// Package source 标记注册中心中一条实例记录来自哪一路数据源。
//
// 描述符本身不携带来源信息；注册中心在索引时用 Record 将描述符与来源组合在一起，
// 复制和清理逻辑据此区分本地注册、对端复制、启动引导和订阅拉取的数据。
package source

import "github.com/ceyewan/genesis-discovery/instance"

// Origin 数据来源类型
type Origin int

const (
	Local      Origin = iota // 本节点直接接收的注册
	Replicated               // 对端注册中心复制而来
	Bootstrap                // 启动时从其他注册中心批量拉取
	Interested               // 客户端订阅拉取
)

func (o Origin) String() string {
	switch o {
	case Local:
		return "LOCAL"
	case Replicated:
		return "REPLICATED"
	case Bootstrap:
		return "BOOTSTRAP"
	case Interested:
		return "INTERESTED"
	default:
		return "UNKNOWN"
	}
}

// Source 来源标识，Name 通常是对端节点名或订阅方名
type Source struct {
	Origin Origin
	Name   string
}

// NewLocal 本地来源
func NewLocal(name string) Source {
	return Source{Origin: Local, Name: name}
}

func (s Source) String() string {
	if s.Name == "" {
		return s.Origin.String()
	}
	return s.Origin.String() + ":" + s.Name
}

// Sourced 能说明自身来源的记录
type Sourced interface {
	Source() Source
}

// Record 带来源信息的实例记录
type Record struct {
	Descriptor *instance.Descriptor
	src        Source
}

var _ Sourced = (*Record)(nil)

// NewRecord 将描述符与来源组合
func NewRecord(d *instance.Descriptor, src Source) *Record {
	return &Record{Descriptor: d, src: src}
}

func (r *Record) Source() Source { return r.src }

// ID 转发描述符的实例 ID
func (r *Record) ID() string {
	if r.Descriptor == nil {
		return ""
	}
	return r.Descriptor.ID()
}

// SameOrigin 两条记录是否来自同一来源
func SameOrigin(a, b Sourced) bool {
	return a.Source() == b.Source()
}
