package instance

import (
	"os"
	"regexp"
	"strings"

	"github.com/ceyewan/genesis-discovery/clog"
)

// DeploymentContext 部署属性源，用于解析 ${key} 形式的宏
//
// 未设置的 key 返回空串。config.Loader 满足该接口。
type DeploymentContext interface {
	Lookup(key string) string
}

// MapContext 基于 map 的属性源，常用于测试和静态部署
type MapContext map[string]string

func (m MapContext) Lookup(key string) string {
	return m[key]
}

// ContextFunc 将普通函数适配为 DeploymentContext
type ContextFunc func(key string) string

func (f ContextFunc) Lookup(key string) string {
	return f(key)
}

// EnvContext 从进程环境变量读取属性，key 原样作为变量名
type EnvContext struct{}

func (EnvContext) Lookup(key string) string {
	return os.Getenv(key)
}

var macroPattern = regexp.MustCompile(`\$\{(.*?)\}`)

// ResolveMacros 将 s 中所有 ${key} 替换为 ctx.Lookup(key)
//
// 每轮取最左侧的宏，递归展开其取值后替换该宏在字符串中的全部出现，再从头重新扫描。
// 未解析的 key 替换为空串；只有 key 出现在自身的展开链中（自引用或互相引用）
// 时才视为环并替换为空串，其余情况下同一个 key 可以被多次引用。
// ctx 为 nil 时所有 key 都视为未设置。
func ResolveMacros(s string, ctx DeploymentContext) string {
	return resolveMacros(s, ctx, clog.Discard())
}

// maxMacroPasses 限制单层展开的扫描轮数，防止取值中不断产生新宏
const maxMacroPasses = 100

func resolveMacros(s string, ctx DeploymentContext, logger clog.Logger) string {
	return expandMacros(s, ctx, logger, make(map[string]struct{}))
}

// expandMacros 展开 s，inProgress 记录当前展开链上的 key
func expandMacros(s string, ctx DeploymentContext, logger clog.Logger, inProgress map[string]struct{}) string {
	for range maxMacroPasses {
		m := macroPattern.FindStringSubmatch(s)
		if m == nil {
			return s
		}
		token, key := m[0], m[1]

		var value string
		if _, cyclic := inProgress[key]; cyclic {
			logger.Warn("macro refers back to itself, substituting empty string",
				clog.String("key", key))
		} else if ctx != nil {
			inProgress[key] = struct{}{}
			value = expandMacros(ctx.Lookup(key), ctx, logger, inProgress)
			delete(inProgress, key)
		}

		logger.Debug("macro resolved",
			clog.String("token", token),
			clog.String("key", key),
			clog.String("value", value))

		s = strings.ReplaceAll(s, token, value)
	}
	logger.Warn("macro expansion pass limit reached", clog.String("value", s))
	return s
}

// hostnameMacro 返回带命名空间前缀的主机名宏，例如 ${eureka.hostname}
func hostnameMacro(namespace string) string {
	return "${" + namespace + "hostname}"
}
