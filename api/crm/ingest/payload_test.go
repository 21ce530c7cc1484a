package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePayload(t *testing.T) {
	require.Error(t, ValidatePayload(nil))

	p := NewPayload()
	p.CanHo["VT 1|VT"] = &Unit{ID: "VT 1|VT", MaCan: "VT 1"}
	p.ChuNha["0901111111"] = &Owner{ID: "0901111111"}
	p.ChuNhaCanHo = []*Link{{CanHoID: "VT 1|VT", ChuNhaID: "0901111111", IsPrimaryContact: true}}
	require.NoError(t, ValidatePayload(p))

	bad := NewPayload()
	bad.CanHo["a"] = &Unit{ID: "b"}
	require.Error(t, ValidatePayload(bad))

	bad = NewPayload()
	bad.ChuNhaCanHo = []*Link{{CanHoID: "", ChuNhaID: "x"}}
	require.Error(t, ValidatePayload(bad))
}

func TestPayloadNormalize(t *testing.T) {
	raw := `{"canHo":{"VT 1|VT":{"maCan":"VT 1"}},"chuNha":{"0901111111":{"hoTen":"A"}},` +
		`"chuNha_canHo":[{"canHoId":"VT 1|VT","chuNhaId":"0901111111"}]}`
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	p.Normalize()
	require.Equal(t, "VT 1|VT", p.CanHo["VT 1|VT"].ID)
	require.Equal(t, "0901111111", p.ChuNha["0901111111"].ID)
	require.True(t, p.ChuNhaCanHo[0].IsPrimaryContact)

	units, owners, links := p.Counts()
	require.Equal(t, 1, units)
	require.Equal(t, 1, owners)
	require.Equal(t, 1, links)
	require.False(t, p.Empty())
	require.True(t, NewPayload().Empty())
}
