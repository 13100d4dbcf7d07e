package instance

import (
	"sync"

	"github.com/maypok86/otter/v2"
)

const defaultInternCapacity = 10000

// Interner 字符串驻留池
//
// 大量实例共享相同的应用名、VIP 地址和 ASG 名，驻留后这些字段指向同一份内存。
// 容量有上限，淘汰后的字符串只是不再共享，不影响正确性。
type Interner struct {
	cache *otter.Cache[string, string]
}

// NewInterner 创建容量为 capacity 的驻留池，非正数使用默认容量
func NewInterner(capacity int) *Interner {
	if capacity <= 0 {
		capacity = defaultInternCapacity
	}
	return &Interner{
		cache: otter.Must(&otter.Options[string, string]{
			MaximumSize: capacity,
		}),
	}
}

var (
	defaultInterner     *Interner
	defaultInternerOnce sync.Once
)

// DefaultInterner 返回进程级共享的驻留池
func DefaultInterner() *Interner {
	defaultInternerOnce.Do(func() {
		defaultInterner = NewInterner(defaultInternCapacity)
	})
	return defaultInterner
}

// Intern 返回与 s 相等的规范字符串；nil Interner 原样返回
func (i *Interner) Intern(s string) string {
	if i == nil || s == "" {
		return s
	}
	if v, ok := i.cache.GetIfPresent(s); ok {
		return v
	}
	i.cache.Set(s, s)
	return s
}
