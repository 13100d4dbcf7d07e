package instance

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock 返回固定时间，用于验证时钟不前进时脏标记时间戳仍然递增
func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func newTestDescriptor(t *testing.T, opts ...Option) *Descriptor {
	t.Helper()
	d, err := NewBuilder(opts...).
		SetAppName("order-service").
		SetHostName("h1").
		Build()
	require.NoError(t, err)
	return d
}

func TestDescriptor_Defaults(t *testing.T) {
	d := newTestDescriptor(t)

	assert.Equal(t, "ORDER-SERVICE", d.AppName())
	assert.Equal(t, StatusUp, d.Status())
	assert.Equal(t, StatusUnknown, d.OverriddenStatus())
	assert.Equal(t, DefaultPort, d.Port())
	assert.Equal(t, DefaultSecurePort, d.SecurePort())
	assert.True(t, d.IsPortEnabled(PortUnsecure))
	assert.False(t, d.IsPortEnabled(PortSecure))
	assert.Equal(t, "na", d.SID())
	assert.Equal(t, DefaultCountryID, d.CountryID())
	assert.Equal(t, DataCenterMyOwn, d.DataCenterInfo().Name())
	assert.False(t, d.IsDirty())
	assert.Empty(t, d.Metadata())
	assert.Nil(t, d.LeaseInfo())
	assert.Equal(t, ActionType(""), d.ActionType())
}

func TestDescriptor_ID(t *testing.T) {
	t.Run("host name without unique id", func(t *testing.T) {
		d := newTestDescriptor(t)
		assert.Equal(t, "h1", d.ID())
		assert.Equal(t, d.ID(), d.ID())
	})

	t.Run("cloud instance id", func(t *testing.T) {
		id := "i-" + uuid.NewString()
		d, err := NewBuilder().
			SetAppName("app").
			SetHostName("ip-10-0-0-1").
			SetDataCenterInfo(NewCloudDataCenter(id, nil)).
			Build()
		require.NoError(t, err)
		assert.Equal(t, id, d.ID())
	})
}

func TestDescriptor_EqualAndHash(t *testing.T) {
	a := newTestDescriptor(t)
	b, err := NewBuilder().
		SetAppName("other").
		SetHostName("h1").
		SetStatus(StatusDown).
		AddMetadata("k", "v").
		Build()
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	c, err := NewBuilder().SetAppName("order-service").SetHostName("h2").Build()
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	noHost, err := NewBuilder().SetAppName("x").Build()
	require.NoError(t, err)
	noHost2, err := NewBuilder().SetAppName("x").Build()
	require.NoError(t, err)
	assert.False(t, noHost.Equal(noHost2), "empty ids never compare equal")
	assert.False(t, noHost.Equal(noHost), "empty id is not equal even to itself")
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(nil))

	var nilDesc *Descriptor
	assert.False(t, nilDesc.Equal(nil))
}

func TestDescriptor_SetStatus(t *testing.T) {
	d := newTestDescriptor(t)

	prev, changed := d.SetStatus(StatusDown)
	assert.True(t, changed)
	assert.Equal(t, StatusUp, prev)
	assert.Equal(t, StatusDown, d.Status())

	asOf, dirty := d.DirtyAsOf()
	require.True(t, dirty)

	_, changed = d.SetStatus(StatusDown)
	assert.False(t, changed)
	assert.Equal(t, asOf, d.LastDirtyTimestamp(), "unchanged status must not advance the dirty timestamp")
}

func TestDescriptor_SetStatusWithoutDirty(t *testing.T) {
	d := newTestDescriptor(t)

	d.SetStatusWithoutDirty(StatusOutOfService)
	assert.Equal(t, StatusOutOfService, d.Status())
	assert.False(t, d.IsDirty())

	d.SetOverriddenStatus(StatusOutOfService)
	assert.Equal(t, StatusOutOfService, d.OverriddenStatus())
	assert.False(t, d.IsDirty())
}

func TestDescriptor_ClearDirtyIfStale(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := newTestDescriptor(t, WithClock(fixedClock(base)))

	d.MarkDirty()
	asOf, dirty := d.DirtyAsOf()
	require.True(t, dirty)

	// 发送期间又有新的修改
	d.MarkDirty()
	assert.True(t, d.LastDirtyTimestamp().After(asOf))
	assert.False(t, d.ClearDirtyIfStale(asOf))
	assert.True(t, d.IsDirty())

	latest, _ := d.DirtyAsOf()
	assert.True(t, d.ClearDirtyIfStale(latest))
	assert.False(t, d.IsDirty())

	_, dirty = d.DirtyAsOf()
	assert.False(t, dirty)
}

func TestDescriptor_ClearDirtyConcurrentWithMarkDirty(t *testing.T) {
	d := newTestDescriptor(t)

	for range 200 {
		d.MarkDirty()
		asOf, _ := d.DirtyAsOf()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.MarkDirty()
		}()
		go func() {
			defer wg.Done()
			d.ClearDirtyIfStale(asOf)
		}()
		wg.Wait()

		// 无论两者顺序如何，晚于 asOf 的修改都不能丢失
		assert.True(t, d.IsDirty())
		d.ClearDirtyIfStale(d.LastDirtyTimestamp())
	}
}

func TestDescriptor_SetLastDirtyTimestampForwardOnly(t *testing.T) {
	d := newTestDescriptor(t)
	now := d.LastDirtyTimestamp()

	d.SetLastDirtyTimestamp(now.Add(-time.Hour))
	assert.Equal(t, now, d.LastDirtyTimestamp())

	later := now.Add(time.Hour)
	d.SetLastDirtyTimestamp(later)
	assert.Equal(t, later, d.LastDirtyTimestamp())
}

func TestDescriptor_SetSIDMarksDirty(t *testing.T) {
	d := newTestDescriptor(t)
	d.SetSID("sid-1")
	assert.Equal(t, "sid-1", d.SID())
	assert.True(t, d.IsDirty())
}

func TestDescriptor_Metadata(t *testing.T) {
	d := newTestDescriptor(t)

	md := d.Metadata()
	md["leak"] = "x"
	_, ok := d.MetadataValue("leak")
	assert.False(t, ok, "Metadata returns a copy")

	d.AddMetadata(map[string]string{"zone": "a", "weight": "10"})
	v, ok := d.MetadataValue("zone")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.True(t, d.IsDirty())

	before := d.LastDirtyTimestamp()
	d.AddMetadata(nil)
	assert.Equal(t, before, d.LastDirtyTimestamp())
}

func TestDescriptor_ConcurrentMutation(t *testing.T) {
	d := newTestDescriptor(t)
	statuses := []Status{StatusUp, StatusDown, StatusStarting, StatusOutOfService}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				d.SetStatus(statuses[(i+j)%len(statuses)])
				d.AddMetadata(map[string]string{uuid.NewString(): "v"})
				d.SetLeaseInfo(NewLeaseInfo(0, 0))
				d.SetActionType(ActionModified)
				d.Touch()
				_ = d.Status()
				_ = d.HealthCheckURLs()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, d.Metadata(), 16*100)
	assert.True(t, d.IsDirty())
	assert.Equal(t, ActionModified, d.ActionType())
	assert.NotNil(t, d.LeaseInfo())
}

func TestDescriptor_HealthCheckURLs(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *Builder
		want    []string
	}{
		{
			name: "secure disabled",
			builder: func() *Builder {
				return NewBuilder().SetAppName("a").SetHostName("h1").SetPort(8080).
					SetHealthCheckURLs("/health", "", "")
			},
			want: []string{"http://h1:8080/health"},
		},
		{
			name: "both enabled",
			builder: func() *Builder {
				return NewBuilder().SetAppName("a").SetHostName("h1").SetPort(8080).SetSecurePort(8443).
					EnablePort(PortSecure, true).
					SetHealthCheckURLs("/health", "", "")
			},
			want: []string{"http://h1:8080/health", "https://h1:8443/health"},
		},
		{
			name: "duplicates collapse",
			builder: func() *Builder {
				return NewBuilder().SetAppName("a").SetHostName("h1").
					EnablePort(PortSecure, true).
					SetHealthCheckURLs("", "http://lb/health", "http://lb/health")
			},
			want: []string{"http://lb/health"},
		},
		{
			name: "plain disabled",
			builder: func() *Builder {
				return NewBuilder().SetAppName("a").SetHostName("h1").
					EnablePort(PortUnsecure, false).
					SetHealthCheckURLs("/health", "", "")
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.builder().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.HealthCheckURLs())
		})
	}
}

func TestDescriptor_Clone(t *testing.T) {
	d := newTestDescriptor(t)
	d.AddMetadata(map[string]string{"k": "v"})
	d.SetCoordinatingDiscoveryServer(true)

	c := d.Clone()
	assert.True(t, c.Equal(d))
	assert.Equal(t, d.Metadata(), c.Metadata())
	assert.True(t, c.IsCoordinatingDiscoveryServer())
	assert.True(t, c.IsDirty())

	c.AddMetadata(map[string]string{"only": "clone"})
	c.SetStatus(StatusDown)
	_, ok := d.MetadataValue("only")
	assert.False(t, ok)
	assert.Equal(t, StatusUp, d.Status())
}

func TestDescriptor_Touch(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	d := newTestDescriptor(t, WithClock(func() time.Time { return current }))
	assert.True(t, d.LastUpdatedTimestamp().Equal(base))

	current = base.Add(time.Minute)
	d.Touch()
	assert.True(t, d.LastUpdatedTimestamp().Equal(current))
}

func TestDescriptor_String(t *testing.T) {
	d := newTestDescriptor(t)
	assert.Contains(t, d.String(), "ORDER-SERVICE")
	assert.Contains(t, d.String(), "h1")
}
