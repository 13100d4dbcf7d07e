package instance

import "maps"

// DataCenterName 数据中心类型
type DataCenterName string

const (
	DataCenterNetflix DataCenterName = "Netflix"
	DataCenterAmazon  DataCenterName = "Amazon"
	DataCenterMyOwn   DataCenterName = "MyOwn"
)

// 云厂商元数据中常用的 key
const (
	MetaInstanceID       = "instance-id"
	MetaAvailabilityZone = "availability-zone"
	MetaPublicHostname   = "public-hostname"
	MetaPublicIPv4       = "public-ipv4"
	MetaLocalHostname    = "local-hostname"
	MetaLocalIPv4        = "local-ipv4"
	MetaInstanceType     = "instance-type"
)

// DataCenterInfo 描述实例运行所在的数据中心
//
// UniqueID 显式声明是否具备唯一标识能力：
// 具备时实例 ID 取该值，否则退化为主机名。
type DataCenterInfo interface {
	Name() DataCenterName
	UniqueID() (id string, ok bool)
}

// MyOwnDataCenter 自建机房，主机名稳定且唯一，不提供唯一标识
type MyOwnDataCenter struct{}

func (MyOwnDataCenter) Name() DataCenterName { return DataCenterMyOwn }

func (MyOwnDataCenter) UniqueID() (string, bool) { return "", false }

// CloudDataCenter 云上部署，主机名可能被回收复用，实例 ID 稳定
type CloudDataCenter struct {
	provider DataCenterName
	metadata map[string]string
}

// NewCloudDataCenter 创建云数据中心描述，instanceID 写入 MetaInstanceID
//
// metadata 会被复制，调用方之后的修改不影响返回值。
func NewCloudDataCenter(instanceID string, metadata map[string]string) *CloudDataCenter {
	md := make(map[string]string, len(metadata)+1)
	maps.Copy(md, metadata)
	md[MetaInstanceID] = instanceID
	return &CloudDataCenter{provider: DataCenterAmazon, metadata: md}
}

func (c *CloudDataCenter) Name() DataCenterName { return c.provider }

func (c *CloudDataCenter) UniqueID() (string, bool) {
	return c.metadata[MetaInstanceID], true
}

// Get 返回指定 key 的元数据，未设置时返回空串
func (c *CloudDataCenter) Get(key string) string {
	return c.metadata[key]
}

// Metadata 返回元数据副本
func (c *CloudDataCenter) Metadata() map[string]string {
	return maps.Clone(c.metadata)
}

// Zone 返回实例所在的可用区
//
// 默认取 availZones 第一个（为空时为 "default"）；
// 实例部署在云上且元数据带有可用区时以元数据为准。
func Zone(availZones []string, d *Descriptor) string {
	zone := "default"
	if len(availZones) > 0 {
		zone = availZones[0]
	}
	if d == nil {
		return zone
	}
	if cloud, ok := d.DataCenterInfo().(*CloudDataCenter); ok {
		if az := cloud.Get(MetaAvailabilityZone); az != "" {
			zone = az
		}
	}
	return zone
}
