package instance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudDataCenter(t *testing.T) {
	md := map[string]string{MetaAvailabilityZone: "us-east-1a"}
	id := uuid.NewString()
	dc := NewCloudDataCenter(id, md)
	md[MetaAvailabilityZone] = "changed"

	got, ok := dc.UniqueID()
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, DataCenterAmazon, dc.Name())
	assert.Equal(t, "us-east-1a", dc.Get(MetaAvailabilityZone))

	copied := dc.Metadata()
	copied[MetaInstanceID] = "other"
	assert.Equal(t, id, dc.Get(MetaInstanceID))
}

func TestMyOwnDataCenter(t *testing.T) {
	id, ok := MyOwnDataCenter{}.UniqueID()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestZone(t *testing.T) {
	onPrem, err := NewBuilder().SetAppName("svc").SetHostName("h1").Build()
	require.NoError(t, err)

	cloud, err := NewBuilder().
		SetAppName("svc").
		SetDataCenterInfo(NewCloudDataCenter("i-1", map[string]string{MetaAvailabilityZone: "us-east-1c"})).
		Build()
	require.NoError(t, err)

	cloudNoZone, err := NewBuilder().
		SetAppName("svc").
		SetDataCenterInfo(NewCloudDataCenter("i-2", nil)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "default", Zone(nil, onPrem))
	assert.Equal(t, "zone-a", Zone([]string{"zone-a", "zone-b"}, onPrem))
	assert.Equal(t, "us-east-1c", Zone([]string{"zone-a"}, cloud))
	assert.Equal(t, "zone-a", Zone([]string{"zone-a"}, cloudNoZone))
	assert.Equal(t, "zone-a", Zone([]string{"zone-a"}, nil))
}
