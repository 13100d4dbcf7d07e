package instance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/genesis-discovery/clog"
)

func TestResolveMacros(t *testing.T) {
	ctx := MapContext{
		"a":     "X",
		"b":     "Y",
		"brace": "{}}${",
		"outer": "${inner}!",
		"inner": "in",
		"self":  "${self}x",
		"ping":  "${pong}",
		"pong":  "${ping}",
		"port":  "8080",
		"addr":  "host:${port}",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "two keys", input: "${a}-${b}", want: "X-Y"},
		{name: "missing key", input: "${missing}", want: ""},
		{name: "no tokens", input: "plain.host:8080", want: "plain.host:8080"},
		{name: "empty", input: "", want: ""},
		{name: "repeated token", input: "${a}.${a}.${a}", want: "X.X.X"},
		{name: "value with braces", input: "[${brace}]", want: "[{}}${]"},
		{name: "nested value", input: "${outer}", want: "in!"},
		{name: "self reference", input: "${self}", want: "x"},
		{name: "mutual reference", input: "${ping}", want: ""},
		{name: "reintroduced key", input: "${port}/${addr}", want: "8080/host:8080"},
		{name: "key referenced by two values", input: "${addr},${addr}-${port}", want: "host:8080,host:8080-8080"},
		{name: "unterminated", input: "${a", want: "${a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMacros(tt.input, ctx))
		})
	}
}

func TestResolveMacros_NilContext(t *testing.T) {
	assert.Equal(t, "svc..internal", ResolveMacros("svc.${env}.internal", nil))
}

func TestResolveMacros_ContextFunc(t *testing.T) {
	ctx := ContextFunc(strings.ToUpper)
	assert.Equal(t, "ENV-REGION", ResolveMacros("${env}-${region}", ctx))
}

func TestResolveMacros_EnvContext(t *testing.T) {
	t.Setenv("DISCOVERY_MACRO_TEST", "from-env")
	assert.Equal(t, "v=from-env", ResolveMacros("v=${DISCOVERY_MACRO_TEST}", EnvContext{}))
}

func TestResolveMacros_LogsSubstitutions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json"}, clog.WithWriter(buf))
	require.NoError(t, err)

	out := resolveMacros("${a}", MapContext{"a": "X"}, logger)
	assert.Equal(t, "X", out)
	assert.Contains(t, buf.String(), "macro resolved")
	assert.Contains(t, buf.String(), `"key":"a"`)
}
