package metrics

import "github.com/ceyewan/genesis-discovery/xerrors"

// CodeInvalidConfig 指标配置无效
const CodeInvalidConfig xerrors.Code = "INVALID_CONFIG"

// ErrInvalidConfig 指标配置无效
var ErrInvalidConfig = xerrors.NewCoded(CodeInvalidConfig, "invalid metrics config")
