package instance

import "github.com/ceyewan/genesis-discovery/xerrors"

const (
	// CodeMissingRequiredField 构建时缺少必填字段
	CodeMissingRequiredField xerrors.Code = "MISSING_REQUIRED_FIELD"
	// CodeInvalidConfig 实例配置无效
	CodeInvalidConfig xerrors.Code = "INVALID_CONFIG"
)

var (
	// ErrMissingRequiredField 构建描述符时缺少应用名
	ErrMissingRequiredField = xerrors.NewCoded(CodeMissingRequiredField, "app name is required")

	// ErrInvalidConfig 实例配置无效
	ErrInvalidConfig = xerrors.NewCoded(CodeInvalidConfig, "invalid instance config")
)
