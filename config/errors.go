package config

import "github.com/ceyewan/genesis-discovery/xerrors"

// CodeInvalidConfig 配置无效
const CodeInvalidConfig xerrors.Code = "INVALID_CONFIG"

// ErrValidationFailed 验证失败
var ErrValidationFailed = xerrors.NewCoded(CodeInvalidConfig, "configuration validation failed")

// IsValidationError 检查错误是否为配置验证失败
func IsValidationError(err error) bool {
	return xerrors.Is(err, ErrValidationFailed)
}

// wrapLoadError 包装加载错误
func wrapLoadError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return xerrors.Wrapf(err, "failed to load config: "+format, args...)
}
