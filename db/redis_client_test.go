package db_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-buddy/db"
)

// Test the Set and Get methods
func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.client.Set("test-key", "test-value"))

			retrieved, err := test.client.Get("test-key")
			require.NoError(t, err)
			assert.Equal(t, "test-value", retrieved)

			_, err = test.client.Get("missing")
			assert.ErrorIs(t, err, db.ErrKeyNotFound)
		})
	}
}

func TestRedisClient_GetLocationsWithinRadius(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient(ctx)

	museums := []struct {
		member   string
		lat, lon float64
	}{
		{"museum:van-gogh", 52.3584, 4.8811},
		{"museum:rijksmuseum", 52.3600, 4.8852},
		{"museum:boijmans", 51.9143, 4.4731},
	}
	for _, m := range museums {
		require.NoError(t, client.AddLocationWithJSON(ctx, "museums", m.member, m.lat, m.lon, map[string]string{"slug": m.member}))
	}

	members, err := client.GetLocationsWithinRadius(ctx, "museums", 52.3600, 4.8852, 5000)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "museum:rijksmuseum", members[0].Name)
	assert.InDelta(t, 0, members[0].DistanceMeters, 1)
	assert.Equal(t, "museum:van-gogh", members[1].Name)
	assert.InDelta(t, 330, members[1].DistanceMeters, 20)

	raw, err := client.Get("museum:van-gogh")
	require.NoError(t, err)
	var stored map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "museum:van-gogh", stored["slug"])

	none, err := client.GetLocationsWithinRadius(ctx, "unknown", 52.36, 4.88, 5000)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRedisClient_KeysAndDel(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient(ctx)
	require.NoError(t, client.Set("museum:a", "1"))
	require.NoError(t, client.Set("museum:b", "2"))
	require.NoError(t, client.Set("other", "3"))
	require.NoError(t, client.AddLocationWithJSON(ctx, "museums_geo", "museum:c", 52, 4, "c"))

	keys, err := client.Keys("museum:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"museum:a", "museum:b", "museum:c"}, keys)

	require.NoError(t, client.Del("museums_geo"))
	members, err := client.GetLocationsWithinRadius(ctx, "museums_geo", 52, 4, 1000)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRedisClient_Ping(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())

	assert.NoError(t, client.Ping())
	assert.Equal(t, context.Background(), client.GetContext())
}
