package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// memStore is an in-memory DocumentStore that records the size of every
// batch it receives.
type memStore struct {
	data       map[string]map[string]map[string]interface{} // tenant/collection -> id -> doc
	batchSizes []int
	drops      []string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]map[string]map[string]interface{}{}}
}

func (m *memStore) coll(tenant, collection string) map[string]map[string]interface{} {
	key := tenant + "/" + collection
	if m.data[key] == nil {
		m.data[key] = map[string]map[string]interface{}{}
	}
	return m.data[key]
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) Set(_ context.Context, tenant, collection, id string, data map[string]interface{}) error {
	c := m.coll(tenant, collection)
	if c[id] == nil {
		c[id] = map[string]interface{}{}
	}
	for k, v := range data {
		c[id][k] = v
	}
	return nil
}

func (m *memStore) BatchSet(ctx context.Context, tenant, collection string, docs []Doc) error {
	m.batchSizes = append(m.batchSizes, len(docs))
	for _, d := range docs {
		if err := m.Set(ctx, tenant, collection, d.ID, d.Data); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) Get(_ context.Context, tenant, collection, id string) (map[string]interface{}, error) {
	return m.coll(tenant, collection)[id], nil
}

func (m *memStore) List(_ context.Context, tenant, collection string) ([]Doc, error) {
	var docs []Doc
	for id, data := range m.coll(tenant, collection) {
		docs = append(docs, Doc{ID: id, Data: data})
	}
	return docs, nil
}

func (m *memStore) Delete(_ context.Context, tenant, collection, id string) error {
	delete(m.coll(tenant, collection), id)
	return nil
}

func (m *memStore) DropCollection(_ context.Context, tenant, collection string) error {
	m.drops = append(m.drops, tenant+"/"+collection)
	delete(m.data, tenant+"/"+collection)
	return nil
}

func (m *memStore) Close(context.Context) error { return nil }

func TestSyncPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds := newMemStore()

	stats, err := SyncPayload(ctx, ds, "demo", samplePayload(), false)
	require.NoError(t, err)
	require.Equal(t, SyncStats{Units: 1, Owners: 1, Links: 1, Batches: 3}, stats)

	got, err := FetchPayload(ctx, ds, "demo")
	require.NoError(t, err)
	require.Equal(t, "Bán", got.CanHo["VT 1|VT"].NhuCau)
	require.Equal(t, "Nguyen Van A", got.ChuNha["0901111111"].HoTen)
	require.Len(t, got.ChuNhaCanHo, 1)
	require.True(t, got.ChuNhaCanHo[0].IsPrimaryContact)
	require.Len(t, got.CanHo["VT 1|VT"].GhiChu, 1)
}

func TestSyncPayloadChunksBatches(t *testing.T) {
	ctx := context.Background()
	ds := newMemStore()

	p := ingest.NewPayload()
	for i := 0; i < config.BatchSize*2+50; i++ {
		id := fmt.Sprintf("C %d|C", i)
		p.CanHo[id] = &ingest.Unit{ID: id, MaCan: fmt.Sprintf("C %d", i), PhanKhu: "C"}
	}

	stats, err := SyncPayload(ctx, ds, "demo", p, false)
	require.NoError(t, err)
	require.Equal(t, config.BatchSize*2+50, stats.Units)
	require.Equal(t, 3, stats.Batches)
	require.ElementsMatch(t, []int{config.BatchSize, config.BatchSize, 50}, ds.batchSizes)
}

func TestSyncPayloadReplaceDropsFirst(t *testing.T) {
	ctx := context.Background()
	ds := newMemStore()

	require.NoError(t, ds.Set(ctx, "demo", config.CollCanHo, "stale|X", map[string]interface{}{"maCan": "stale"}))

	_, err := SyncPayload(ctx, ds, "demo", samplePayload(), true)
	require.NoError(t, err)
	require.Contains(t, ds.drops, "demo/"+config.CollCanHo)

	got, err := FetchPayload(ctx, ds, "demo")
	require.NoError(t, err)
	require.NotContains(t, got.CanHo, "stale|X")
	require.Contains(t, got.CanHo, "VT 1|VT")
}

func TestSyncThenFetchMergesRemoteField(t *testing.T) {
	ctx := context.Background()
	ds := newMemStore()

	_, err := SyncPayload(ctx, ds, "demo", samplePayload(), false)
	require.NoError(t, err)

	// A later partial write merges into the stored doc instead of
	// replacing it.
	require.NoError(t, ds.Set(ctx, "demo", config.CollCanHo, "VT 1|VT", map[string]interface{}{"huong": "Đông"}))

	got, err := FetchPayload(ctx, ds, "demo")
	require.NoError(t, err)
	unit := got.CanHo["VT 1|VT"]
	require.Equal(t, "Đông", unit.Huong)
	require.Equal(t, "Bán", unit.NhuCau)
}
