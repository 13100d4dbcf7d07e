package instance

// 相邻编解码层使用的稳定字段名
const (
	FieldApp                           = "app"
	FieldAppGroupName                  = "appGroupName"
	FieldIPAddr                        = "ipAddr"
	FieldSID                           = "sid" // Deprecated
	FieldPort                          = "port"
	FieldPortEnabled                   = "portEnabled"
	FieldSecurePort                    = "securePort"
	FieldSecurePortEnabled             = "securePortEnabled"
	FieldHomePageURL                   = "homePageUrl"
	FieldStatusPageURL                 = "statusPageUrl"
	FieldHealthCheckURL                = "healthCheckUrl"
	FieldSecureHealthCheckURL          = "secureHealthCheckUrl"
	FieldVIPAddress                    = "vipAddress"
	FieldSecureVIPAddress              = "secureVipAddress"
	FieldCountryID                     = "countryId" // Deprecated
	FieldDataCenterInfo                = "dataCenterInfo"
	FieldHostName                      = "hostName"
	FieldStatus                        = "status"
	FieldOverriddenStatus              = "overriddenstatus"
	FieldLeaseInfo                     = "leaseInfo"
	FieldIsCoordinatingDiscoveryServer = "isCoordinatingDiscoveryServer"
	FieldMetadata                      = "metadata"
	FieldLastUpdatedTimestamp          = "lastUpdatedTimestamp"
	FieldLastDirtyTimestamp            = "lastDirtyTimestamp"
	FieldActionType                    = "actionType"
	FieldASGName                       = "asgName"
)

// 旧版 JSON/XML 编码会在空 metadata 中写入这一对键值，构建时剔除
const (
	legacyMetadataKey      = "@class"
	legacyMetadataXMLKey   = "class"
	legacyMetadataEmptyMap = "java.util.Collections$EmptyMap"
)

// stripLegacyMetadata 仅当 metadata 恰好只有一项且为旧版兼容标记时删除该项
func stripLegacyMetadata(md map[string]string) {
	if len(md) != 1 {
		return
	}
	if md[legacyMetadataKey] == legacyMetadataEmptyMap {
		delete(md, legacyMetadataKey)
	} else if md[legacyMetadataXMLKey] == legacyMetadataEmptyMap {
		delete(md, legacyMetadataXMLKey)
	}
}
