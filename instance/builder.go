package instance

import (
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/ceyewan/genesis-discovery/clog"
)

// Builder 两阶段构建 Descriptor
//
// 设置方法保留 URL 与 VIP 地址的原始输入，并立即用当前主机名和端口计算结果；
// 主机名变化时从原始输入重新计算，因此设置顺序会影响结果：
// 端口应在相对 URL 之前设置。所有设置方法都不会拒绝输入。
//
// Builder 不是并发安全的，应在单个 goroutine 内完成构建。
type Builder struct {
	opts  *options
	attrs attributes

	sid              string
	status           Status
	overriddenStatus Status
	leaseInfo        *LeaseInfo
	actionType       ActionType
	coordinating     bool
	metadata         map[string]string
	lastUpdated      time.Time
	lastDirty        time.Time
}

// NewBuilder 创建带默认值的 Builder
func NewBuilder(opts ...Option) *Builder {
	o := applyOptions(opts...)
	now := o.clock()
	return &Builder{
		opts: o,
		attrs: attributes{
			port:                DefaultPort,
			securePort:          DefaultSecurePort,
			unsecurePortEnabled: true,
			countryID:           DefaultCountryID,
			dataCenter:          MyOwnDataCenter{},
		},
		sid:              defaultSID,
		status:           StatusUp,
		overriddenStatus: StatusUnknown,
		metadata:         make(map[string]string),
		lastUpdated:      now,
		lastDirty:        now,
	}
}

// NewBuilderFrom 以已有描述符为起点创建 Builder，原始输入一并继承
func NewBuilderFrom(d *Descriptor, opts ...Option) *Builder {
	b := NewBuilder(opts...)
	b.attrs = d.attrs

	d.mu.Lock()
	b.sid = d.sid
	b.status = d.status
	b.overriddenStatus = d.overriddenStatus
	b.metadata = maps.Clone(d.metadata)
	b.lastDirty = d.lastDirty
	d.mu.Unlock()

	if b.metadata == nil {
		b.metadata = make(map[string]string)
	}
	b.leaseInfo = d.LeaseInfo()
	b.actionType = d.ActionType()
	b.coordinating = d.IsCoordinatingDiscoveryServer()
	b.lastUpdated = d.LastUpdatedTimestamp()
	return b
}

// SetNamespace 设置主机名宏的命名空间前缀
func (b *Builder) SetNamespace(namespace string) *Builder {
	b.opts.namespace = namespace
	return b
}

// SetAppName 应用名统一转为大写
func (b *Builder) SetAppName(name string) *Builder {
	b.attrs.appName = b.opts.interner.Intern(strings.ToUpper(name))
	return b
}

// SetAppGroupName 应用组名统一转为大写
func (b *Builder) SetAppGroupName(name string) *Builder {
	b.attrs.appGroupName = b.opts.interner.Intern(strings.ToUpper(name))
	return b
}

// SetHostName 设置主机名
//
// 若此前已设置过不同的主机名，状态页、健康检查地址和 VIP 地址会从原始输入重新计算。
func (b *Builder) SetHostName(host string) *Builder {
	old := b.attrs.hostName
	b.attrs.hostName = host
	if old != "" && old != host {
		b.opts.logger.Debug("host name changed, re-resolving urls",
			clog.String("old", old),
			clog.String("new", host))
		b.refreshStatusPageURL()
		b.refreshHealthCheckURLs()
		b.refreshVIPAddress()
		b.refreshSecureVIPAddress()
	}
	return b
}

func (b *Builder) SetStatus(s Status) *Builder {
	b.status = s
	return b
}

func (b *Builder) SetOverriddenStatus(s Status) *Builder {
	b.overriddenStatus = s
	return b
}

func (b *Builder) SetIPAddr(ip string) *Builder {
	b.attrs.ipAddr = ip
	return b
}

// Deprecated: sid 已不再使用
func (b *Builder) SetSID(sid string) *Builder {
	b.sid = sid
	return b
}

func (b *Builder) SetPort(port int) *Builder {
	b.attrs.port = port
	return b
}

func (b *Builder) SetSecurePort(port int) *Builder {
	b.attrs.securePort = port
	return b
}

// EnablePort 启用或禁用端口，只影响之后计算的健康检查地址
func (b *Builder) EnablePort(t PortType, enabled bool) *Builder {
	if t == PortSecure {
		b.attrs.securePortEnabled = enabled
	} else {
		b.attrs.unsecurePortEnabled = enabled
	}
	return b
}

// Deprecated: 国家 ID 已不再使用
func (b *Builder) SetCountryID(id int) *Builder {
	b.attrs.countryID = id
	return b
}

// --- URL ---

// SetHomePageURL 设置首页地址：explicit 优先，否则由 relative 与主机名、端口拼接
func (b *Builder) SetHomePageURL(relative, explicit string) *Builder {
	b.attrs.raw.homePageRelativeURL = relative
	b.attrs.raw.homePageExplicitURL = explicit
	if u, ok := b.resolveURL(relative, explicit, PortUnsecure, false); ok {
		b.attrs.homePageURL = u
	}
	return b
}

// SetHomePageURLForDeser 直接使用已解析的地址，不做宏替换
func (b *Builder) SetHomePageURLForDeser(u string) *Builder {
	b.attrs.homePageURL = u
	return b
}

// SetStatusPageURL 设置状态页地址：explicit 优先，否则由 relative 与主机名、端口拼接
func (b *Builder) SetStatusPageURL(relative, explicit string) *Builder {
	b.attrs.raw.statusPageRelativeURL = relative
	b.attrs.raw.statusPageExplicitURL = explicit
	b.refreshStatusPageURL()
	return b
}

// SetStatusPageURLForDeser 直接使用已解析的地址，不做宏替换
func (b *Builder) SetStatusPageURLForDeser(u string) *Builder {
	b.attrs.statusPageURL = u
	return b
}

// SetHealthCheckURLs 设置普通与安全健康检查地址
//
// 普通地址：explicit 优先，否则普通端口启用时由 relative 拼接 http 地址；
// 安全地址：secureExplicit 优先，否则安全端口启用时由 relative 拼接 https 地址。
func (b *Builder) SetHealthCheckURLs(relative, explicit, secureExplicit string) *Builder {
	b.attrs.raw.healthCheckRelativeURL = relative
	b.attrs.raw.healthCheckExplicitURL = explicit
	b.attrs.raw.healthCheckSecureExplicitURL = secureExplicit
	b.refreshHealthCheckURLs()
	return b
}

// SetHealthCheckURLsForDeser 直接使用已解析的地址，不做宏替换和端口检查
func (b *Builder) SetHealthCheckURLsForDeser(plain, secure string) *Builder {
	if plain != "" {
		b.attrs.healthCheckURL = plain
	}
	if secure != "" {
		b.attrs.secureHealthCheckURL = secure
	}
	return b
}

func (b *Builder) refreshStatusPageURL() {
	raw := b.attrs.raw
	if u, ok := b.resolveURL(raw.statusPageRelativeURL, raw.statusPageExplicitURL, PortUnsecure, false); ok {
		b.attrs.statusPageURL = u
	}
}

func (b *Builder) refreshHealthCheckURLs() {
	raw := b.attrs.raw
	if u, ok := b.resolveURL(raw.healthCheckRelativeURL, raw.healthCheckExplicitURL, PortUnsecure, true); ok {
		b.attrs.healthCheckURL = u
	}
	if u, ok := b.resolveURL(raw.healthCheckRelativeURL, raw.healthCheckSecureExplicitURL, PortSecure, true); ok {
		b.attrs.secureHealthCheckURL = u
	}
}

// resolveURL 按优先级计算地址，未给出任何输入（或端口被禁用）时返回 false
func (b *Builder) resolveURL(relative, explicit string, t PortType, gated bool) (string, bool) {
	if explicit != "" {
		return strings.ReplaceAll(explicit, hostnameMacro(b.opts.namespace), b.attrs.hostName), true
	}
	if relative == "" {
		return "", false
	}

	scheme, port := "http://", b.attrs.port
	if t == PortSecure {
		scheme, port = "https://", b.attrs.securePort
	}
	if gated && !b.attrs.portEnabled(t) {
		return "", false
	}
	return scheme + b.attrs.hostName + ":" + strconv.Itoa(port) + relative, true
}

func (a *attributes) portEnabled(t PortType) bool {
	if t == PortSecure {
		return a.securePortEnabled
	}
	return a.unsecurePortEnabled
}

// --- VIP ---

// SetVIPAddress 保存原始地址并解析其中的宏
func (b *Builder) SetVIPAddress(vip string) *Builder {
	b.attrs.raw.vipAddressUnresolved = b.opts.interner.Intern(vip)
	b.refreshVIPAddress()
	return b
}

// SetVIPAddressForDeser 直接使用已解析的地址
func (b *Builder) SetVIPAddressForDeser(vip string) *Builder {
	b.attrs.vipAddress = b.opts.interner.Intern(vip)
	return b
}

// SetSecureVIPAddress 保存原始地址并解析其中的宏
func (b *Builder) SetSecureVIPAddress(vip string) *Builder {
	b.attrs.raw.secureVIPAddressUnresolved = b.opts.interner.Intern(vip)
	b.refreshSecureVIPAddress()
	return b
}

// SetSecureVIPAddressForDeser 直接使用已解析的地址
func (b *Builder) SetSecureVIPAddressForDeser(vip string) *Builder {
	b.attrs.secureVIPAddress = b.opts.interner.Intern(vip)
	return b
}

func (b *Builder) refreshVIPAddress() {
	if raw := b.attrs.raw.vipAddressUnresolved; raw != "" {
		b.attrs.vipAddress = b.opts.interner.Intern(resolveMacros(raw, b.opts.deployment, b.opts.logger))
	}
}

func (b *Builder) refreshSecureVIPAddress() {
	if raw := b.attrs.raw.secureVIPAddressUnresolved; raw != "" {
		b.attrs.secureVIPAddress = b.opts.interner.Intern(resolveMacros(raw, b.opts.deployment, b.opts.logger))
	}
}

// --- 其他字段 ---

func (b *Builder) SetDataCenterInfo(dc DataCenterInfo) *Builder {
	b.attrs.dataCenter = dc
	return b
}

func (b *Builder) SetLeaseInfo(info *LeaseInfo) *Builder {
	b.leaseInfo = info
	return b
}

func (b *Builder) AddMetadata(key, value string) *Builder {
	b.metadata[key] = value
	return b
}

// SetMetadata 替换全部元数据，传入的 map 会被复制
func (b *Builder) SetMetadata(md map[string]string) *Builder {
	b.metadata = make(map[string]string, len(md))
	maps.Copy(b.metadata, md)
	return b
}

func (b *Builder) SetASGName(name string) *Builder {
	b.attrs.asgName = b.opts.interner.Intern(name)
	return b
}

func (b *Builder) SetIsCoordinatingDiscoveryServer(v bool) *Builder {
	b.coordinating = v
	return b
}

func (b *Builder) SetLastUpdatedTimestamp(ts time.Time) *Builder {
	b.lastUpdated = ts
	return b
}

func (b *Builder) SetLastDirtyTimestamp(ts time.Time) *Builder {
	b.lastDirty = ts
	return b
}

func (b *Builder) SetActionType(a ActionType) *Builder {
	b.actionType = a
	return b
}

// IsInitialized 是否已设置应用名
func (b *Builder) IsInitialized() bool {
	return b.attrs.appName != ""
}

// Build 生成描述符，未设置应用名时返回 ErrMissingRequiredField
//
// 可多次调用，每次返回独立的描述符。
func (b *Builder) Build() (*Descriptor, error) {
	if !b.IsInitialized() {
		return nil, ErrMissingRequiredField
	}

	d := &Descriptor{
		attrs:            b.attrs,
		now:              b.opts.clock,
		stats:            b.opts.stats,
		sid:              b.sid,
		status:           b.status,
		overriddenStatus: b.overriddenStatus,
		lastDirty:        b.lastDirty,
		metadata:         maps.Clone(b.metadata),
	}
	stripLegacyMetadata(d.metadata)
	d.leaseInfo.Store(b.leaseInfo)
	d.actionType.Store(b.actionType)
	d.coordinating.Store(b.coordinating)
	d.lastUpdated.Store(b.lastUpdated.UnixNano())

	b.opts.stats.onBuilt(d.attrs.appName)
	b.opts.logger.Debug("instance descriptor built",
		clog.String("app", d.attrs.appName),
		clog.String("id", d.ID()),
		clog.String("status", d.status.String()))
	return d, nil
}
