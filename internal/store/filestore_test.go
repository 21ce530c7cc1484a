package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"BdsCrm/api/crm/ingest"
)

func samplePayload() *ingest.Payload {
	p := ingest.NewPayload()
	gia := 7.5
	p.CanHo["VT 1|VT"] = &ingest.Unit{
		ID: "VT 1|VT", MaCan: "VT 1", PhanKhu: "VT", NhuCau: "Bán", Gia: &gia,
		GhiChu: []ingest.Note{{Date: "2025-08-15", Ts: 1755250200000, Content: "chốt giá"}},
	}
	p.ChuNha["0901111111"] = &ingest.Owner{ID: "0901111111", HoTen: "Nguyen Van A", Sdt1: "0901111111"}
	p.ChuNhaCanHo = []*ingest.Link{{
		CanHoID: "VT 1|VT", ChuNhaID: "0901111111",
		IsPrimaryContact: true, Role: ingest.RolePrimaryOwner,
	}}
	return p
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewFileCache(t.TempDir())

	got, err := cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, cache.Save(ctx, "demo", samplePayload()))

	got, err = cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Bán", got.CanHo["VT 1|VT"].NhuCau)
	require.Equal(t, 7.5, *got.CanHo["VT 1|VT"].Gia)
	require.Equal(t, "Nguyen Van A", got.ChuNha["0901111111"].HoTen)
	require.Len(t, got.ChuNhaCanHo, 1)
}

func TestFileCacheTenantsIsolated(t *testing.T) {
	ctx := context.Background()
	cache := NewFileCache(t.TempDir())

	require.NoError(t, cache.Save(ctx, "a", samplePayload()))

	got, err := cache.Load(ctx, "b")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	cache := NewFileCache(t.TempDir())

	require.NoError(t, cache.Clear(ctx, "demo"))
	require.NoError(t, cache.Save(ctx, "demo", samplePayload()))
	require.NoError(t, cache.Clear(ctx, "demo"))

	got, err := cache.Load(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)
}
