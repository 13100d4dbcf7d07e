package instance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/genesis-discovery/config"
)

const watchYAML = `
eureka:
  env: %s
instance:
  app_name: order-service
  host_name: h1
  vip_address: order.${eureka.env}.internal
  secure_vip_address: order.${eureka.env}.secure
`

func writeWatchConfig(t *testing.T, dir, env string) string {
	t.Helper()
	path := filepath.Join(dir, "discovery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(watchYAML, env)), 0o644))
	return path
}

func TestWatchVIP(t *testing.T) {
	dir := t.TempDir()
	path := writeWatchConfig(t, dir, "test")

	loader, err := config.New(&config.Config{Name: "discovery", Paths: []string{dir}, EnvPrefix: "WATCHVIPTEST"})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	var cfg Config
	require.NoError(t, loader.UnmarshalKey("instance", &cfg))
	d, err := NewFromConfig(&cfg, WithDeploymentContext(loader))
	require.NoError(t, err)
	require.Equal(t, "order.test.internal", d.VIPAddress())
	require.True(t, d.ClearDirtyIfStale(d.LastDirtyTimestamp()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch, err := WatchVIP(ctx, loader, d)
	require.NoError(t, err)

	// 先写临时文件再 rename，避免 watcher 读到截断后的空文件
	tmp := writeWatchConfig(t, t.TempDir(), "prod")
	require.NoError(t, os.Rename(tmp, path))

	var got *Descriptor
	for got == nil || got.VIPAddress() != "order.prod.internal" {
		select {
		case got = <-ch:
			require.NotNil(t, got)
		case <-ctx.Done():
			t.Fatal("timed out waiting for re-resolved descriptor")
		}
	}
	assert.Equal(t, "order.prod.secure", got.SecureVIPAddress())
	assert.True(t, got.IsDirty())
	assert.True(t, got.Equal(d))
	assert.Equal(t, "order.test.internal", d.VIPAddress(), "original descriptor is unchanged")
	assert.False(t, d.IsDirty())

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after context cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed")
	}
}

func TestWatchVIP_NoMacros(t *testing.T) {
	d, err := NewBuilder().SetAppName("svc").SetVIPAddress("svc.plain").Build()
	require.NoError(t, err)

	loader, err := config.New(&config.Config{Name: "absent", Paths: []string{t.TempDir()}})
	require.NoError(t, err)

	ch, err := WatchVIP(context.Background(), loader, d)
	require.NoError(t, err)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestMacroKeys(t *testing.T) {
	assert.Equal(t, []string{"env", "region"}, macroKeys("svc.${env}.${region}", "${env}-secure"))
	assert.Empty(t, macroKeys("plain", ""))
}
