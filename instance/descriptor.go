// Package instance 提供服务实例描述符：注册中心存储、复制并下发给客户端的最小状态单元。
//
// Descriptor 记录访问并信任一个运行中实例所需的全部信息（地址、端口、状态页与健康检查地址、
// 租约、状态覆盖、元数据），以及注册中心判断"是否需要重新发送"所依赖的脏标记。
//
// ## 构建
//
// Descriptor 只能通过 Builder 构建。Builder 先积累原始字段，再用主机名、端口和
// DeploymentContext 解析 URL 模板与 VIP 地址宏：
//
//	desc, err := instance.NewBuilder(
//		instance.WithDeploymentContext(loader),
//		instance.WithLogger(logger),
//	).
//		SetAppName("order-service").
//		SetHostName("10.0.0.12").
//		SetPort(8080).
//		SetStatusPageURL("/status", "").
//		SetHealthCheckURLs("/healthz", "", "").
//		SetVIPAddress("order.${eureka.env}.internal").
//		Build()
//
// ## 脏标记与乐观清除
//
// 状态变化会打上脏标记并记录时间戳。复制方在发送前读取 DirtyAsOf，
// 发送成功后以该时间戳调用 ClearDirtyIfStale：若期间又有新的修改，
// 脏标记的时间戳已经更新，清除请求不会生效，新的修改不会丢失。
//
//	if asOf, dirty := desc.DirtyAsOf(); dirty {
//		if err := replicate(ctx, desc); err == nil {
//			desc.ClearDirtyIfStale(asOf)
//		}
//	}
//
// ## 并发
//
// 每个 Descriptor 自带一把互斥锁，只保护状态、覆盖状态、脏标记和元数据；
// 不同实例之间没有共享锁。构建后不再变化的字段无需加锁，
// 其余可变字段（租约、ActionType、协调者标记、更新时间）使用原子类型。
package instance

import (
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultPort       = 7001
	DefaultSecurePort = 7002
	DefaultCountryID  = 1 // US
	defaultSID        = "na"
)

// rawInputs URL 与 VIP 地址的原始输入，主机名变化时据此重新计算
type rawInputs struct {
	homePageRelativeURL          string
	homePageExplicitURL          string
	statusPageRelativeURL        string
	statusPageExplicitURL        string
	healthCheckRelativeURL       string
	healthCheckExplicitURL       string
	healthCheckSecureExplicitURL string
	vipAddressUnresolved         string
	secureVIPAddressUnresolved   string
}

// attributes 构建完成后不再变化的字段
type attributes struct {
	appName      string
	appGroupName string
	hostName     string
	ipAddr       string

	port                int
	securePort          int
	unsecurePortEnabled bool
	securePortEnabled   bool
	countryID           int

	homePageURL          string
	statusPageURL        string
	healthCheckURL       string
	secureHealthCheckURL string
	vipAddress           string
	secureVIPAddress     string

	dataCenter DataCenterInfo
	asgName    string

	raw rawInputs
}

// Descriptor 服务实例描述符
//
// 零值不可用，必须通过 Builder 创建；包含锁，不可复制，需要副本时使用 Clone。
type Descriptor struct {
	attrs attributes
	now   func() time.Time
	stats *descriptorStats

	leaseInfo    atomic.Pointer[LeaseInfo]
	actionType   atomic.Value // ActionType
	coordinating atomic.Bool
	lastUpdated  atomic.Int64 // UnixNano

	mu               sync.Mutex
	sid              string
	status           Status
	overriddenStatus Status
	dirty            bool
	lastDirty        time.Time
	metadata         map[string]string
}

// ID 实例标识：数据中心具备唯一标识能力时取其 ID，否则取主机名
func (d *Descriptor) ID() string {
	if d.attrs.dataCenter != nil {
		if id, ok := d.attrs.dataCenter.UniqueID(); ok {
			return id
		}
	}
	return d.attrs.hostName
}

// Equal 两个描述符的 ID 相同（且非空）即视为相等，其余字段不参与比较
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return false
	}
	id := d.ID()
	return id != "" && id == other.ID()
}

// Hash 与 Equal 一致的哈希值，只取决于 ID
func (d *Descriptor) Hash() uint64 {
	if d == nil {
		return 0
	}
	return xxhash.Sum64String(d.ID())
}

func (d *Descriptor) AppName() string      { return d.attrs.appName }
func (d *Descriptor) AppGroupName() string { return d.attrs.appGroupName }
func (d *Descriptor) HostName() string     { return d.attrs.hostName }
func (d *Descriptor) IPAddr() string       { return d.attrs.ipAddr }
func (d *Descriptor) Port() int            { return d.attrs.port }
func (d *Descriptor) SecurePort() int      { return d.attrs.securePort }
func (d *Descriptor) ASGName() string      { return d.attrs.asgName }

// Deprecated: 国家 ID 已不再使用
func (d *Descriptor) CountryID() int { return d.attrs.countryID }

func (d *Descriptor) DataCenterInfo() DataCenterInfo { return d.attrs.dataCenter }

// IsPortEnabled 端口是否对外提供服务
func (d *Descriptor) IsPortEnabled(t PortType) bool {
	return d.attrs.portEnabled(t)
}

func (d *Descriptor) HomePageURL() string          { return d.attrs.homePageURL }
func (d *Descriptor) StatusPageURL() string        { return d.attrs.statusPageURL }
func (d *Descriptor) HealthCheckURL() string       { return d.attrs.healthCheckURL }
func (d *Descriptor) SecureHealthCheckURL() string { return d.attrs.secureHealthCheckURL }
func (d *Descriptor) VIPAddress() string           { return d.attrs.vipAddress }
func (d *Descriptor) SecureVIPAddress() string     { return d.attrs.secureVIPAddress }

// HealthCheckURLs 对外可见的健康检查地址，只包含已启用端口对应的非空地址
//
// 普通地址在前，安全地址在后，重复地址只保留一个。
func (d *Descriptor) HealthCheckURLs() []string {
	urls := make([]string, 0, 2)
	if d.attrs.unsecurePortEnabled && d.attrs.healthCheckURL != "" {
		urls = append(urls, d.attrs.healthCheckURL)
	}
	if d.attrs.securePortEnabled && d.attrs.secureHealthCheckURL != "" &&
		d.attrs.secureHealthCheckURL != d.attrs.healthCheckURL {
		urls = append(urls, d.attrs.secureHealthCheckURL)
	}
	return urls
}

// --- 状态与脏标记 ---

func (d *Descriptor) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Descriptor) OverriddenStatus() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.overriddenStatus
}

// SetStatus 状态变化时替换并打上脏标记，返回旧状态和 true；状态未变时返回 false 且无副作用
func (d *Descriptor) SetStatus(status Status) (Status, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status == status {
		return "", false
	}
	prev := d.status
	d.status = status
	d.markDirtyLocked()
	d.stats.onStatusChange(d.attrs.appName, prev, status)
	return prev, true
}

// SetStatusWithoutDirty 替换状态但不打脏标记，不会触发重新发送
func (d *Descriptor) SetStatusWithoutDirty(status Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// SetOverriddenStatus 替换外部强制设置的状态，不打脏标记
func (d *Descriptor) SetOverriddenStatus(status Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overriddenStatus = status
}

// MarkDirty 打上脏标记并刷新脏标记时间戳
func (d *Descriptor) MarkDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.markDirtyLocked()
}

// markDirtyLocked 时间戳严格递增：即使时钟回拨或精度不足，
// 新的脏标记也一定晚于此前通过 DirtyAsOf 读到的任何时间戳。
func (d *Descriptor) markDirtyLocked() {
	ts := d.now()
	if !ts.After(d.lastDirty) {
		ts = d.lastDirty.Add(time.Nanosecond)
	}
	d.lastDirty = ts
	if !d.dirty {
		d.dirty = true
		d.stats.onDirty()
	}
}

// ClearDirtyIfStale 当脏标记时间戳不晚于 asOf 时清除脏标记，返回是否清除
//
// asOf 应取自 DirtyAsOf。若之后又有新的修改，时间戳已晚于 asOf，清除不生效。
func (d *Descriptor) ClearDirtyIfStale(asOf time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastDirty.After(asOf) {
		d.stats.onClear(false, d.dirty)
		return false
	}
	d.stats.onClear(true, d.dirty)
	d.dirty = false
	return true
}

func (d *Descriptor) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// DirtyAsOf 处于脏状态时返回脏标记时间戳和 true
func (d *Descriptor) DirtyAsOf() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.dirty {
		return time.Time{}, false
	}
	return d.lastDirty, true
}

func (d *Descriptor) LastDirtyTimestamp() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastDirty
}

// SetLastDirtyTimestamp 只会向后推进时间戳，早于当前值的输入被忽略
func (d *Descriptor) SetLastDirtyTimestamp(ts time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ts.After(d.lastDirty) {
		d.lastDirty = ts
	}
}

// Deprecated: sid 已不再使用
func (d *Descriptor) SID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sid
}

// Deprecated: sid 已不再使用；修改会打上脏标记
func (d *Descriptor) SetSID(sid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sid = sid
	d.markDirtyLocked()
}

// --- 元数据 ---

// Metadata 返回元数据副本
func (d *Descriptor) Metadata() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.metadata)
}

// MetadataValue 返回单个元数据
func (d *Descriptor) MetadataValue(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.metadata[key]
	return v, ok
}

// AddMetadata 合并运行时元数据并打上脏标记，是唯一允许原地修改元数据的入口
func (d *Descriptor) AddMetadata(md map[string]string) {
	if len(md) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	maps.Copy(d.metadata, md)
	d.markDirtyLocked()
}

// --- 其他运行时字段 ---

func (d *Descriptor) LeaseInfo() *LeaseInfo { return d.leaseInfo.Load() }

func (d *Descriptor) SetLeaseInfo(info *LeaseInfo) { d.leaseInfo.Store(info) }

func (d *Descriptor) ActionType() ActionType {
	a, _ := d.actionType.Load().(ActionType)
	return a
}

func (d *Descriptor) SetActionType(a ActionType) { d.actionType.Store(a) }

// IsCoordinatingDiscoveryServer 该实例是否就是当前进程所在的注册中心节点
func (d *Descriptor) IsCoordinatingDiscoveryServer() bool { return d.coordinating.Load() }

// SetCoordinatingDiscoveryServer 由部署层判断后设置，描述符自身不做推导
func (d *Descriptor) SetCoordinatingDiscoveryServer(v bool) { d.coordinating.Store(v) }

func (d *Descriptor) LastUpdatedTimestamp() time.Time {
	return time.Unix(0, d.lastUpdated.Load())
}

// Touch 将最后更新时间设为当前时间
func (d *Descriptor) Touch() {
	d.lastUpdated.Store(d.now().UnixNano())
}

// Clone 深拷贝描述符，副本拥有独立的锁和元数据
//
// 副本不计入指标：脏标记和状态变化只由原描述符上报。
func (d *Descriptor) Clone() *Descriptor {
	c := &Descriptor{
		attrs: d.attrs,
		now:   d.now,
	}
	c.leaseInfo.Store(d.leaseInfo.Load())
	c.actionType.Store(d.ActionType())
	c.coordinating.Store(d.coordinating.Load())
	c.lastUpdated.Store(d.lastUpdated.Load())

	d.mu.Lock()
	defer d.mu.Unlock()
	c.sid = d.sid
	c.status = d.status
	c.overriddenStatus = d.overriddenStatus
	c.dirty = d.dirty
	c.lastDirty = d.lastDirty
	c.metadata = maps.Clone(d.metadata)
	if c.metadata == nil {
		c.metadata = make(map[string]string)
	}
	return c
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("Descriptor{app=%s, id=%s, host=%s, status=%s}",
		d.attrs.appName, d.ID(), d.attrs.hostName, d.Status())
}
