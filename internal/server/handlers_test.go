package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BioDash/internal/dataset"
	"BioDash/internal/ingest"
	"BioDash/internal/model"
	"BioDash/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	mk := func(y, m, d int, state, city, agent string, price float64) model.PurchaseRecord {
		return model.PurchaseRecord{
			Date: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
			Year: y, Month: m, Day: d,
			State: state, City: city, Agent: agent, Price: price,
		}
	}
	loader := &ingest.MockLoader{
		Rows: []model.PurchaseRecord{
			mk(2023, 1, 10, "SP", "Campinas", "Bacillus", 11),
			mk(2023, 1, 15, "SP", "Piracicaba", "Bacillus", 13),
			mk(2023, 2, 5, "MG", "Uberaba", "Bacillus", 386),
			mk(2024, 3, 1, "SP", "Campinas", "Trichoderma", 42.5),
		},
		Fingerprint: "fp-test",
	}
	m := dataset.NewManager(loader, store.NewNoopStore())
	_, err := m.Reload(context.Background())
	require.NoError(t, err)
	return New(":0", m)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["loaded"])
	assert.Equal(t, float64(4), body["records"])
}

func TestHandleStats_Filtered(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/stats?year=2023&state=SP")
	require.Equal(t, http.StatusOK, rec.Code)

	var s model.Summary
	decode(t, rec, &s)
	assert.Equal(t, 2, s.Records)
	assert.Equal(t, 1, s.Agents)
	assert.InDelta(t, 24.0, s.Total, 1e-9)
}

func TestHandleOptions_Cascade(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/options?field=city&state=SP")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Field   string   `json:"field"`
		Options []string `json:"options"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"Campinas", "Piracicaba"}, body.Options)

	rec = get(t, s, "/api/v1/options?field=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecords_Limit(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/records?agent=Bacillus&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total   int                    `json:"total"`
		Records []model.PurchaseRecord `json:"records"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Total)
	assert.Len(t, body.Records, 2)
	assert.Equal(t, "Band 1", body.Records[0].BandLabel)
}

func TestHandleBands(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/bands?agent=Bacillus")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]model.Band
	decode(t, rec, &body)
	require.Len(t, body["Bacillus"], 2) // {11,13} and {386}

	rec = get(t, s, "/api/v1/bands?agent=Nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAggregate(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/aggregate?by=state")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		By     string                 `json:"by"`
		Total  int                    `json:"total"`
		Groups []model.GroupAggregate `json:"groups"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "state", body.By)
	require.Len(t, body.Groups, 2)
	assert.Equal(t, "MG", body.Groups[0].Key) // 386 beats SP's 66.5

	rec = get(t, testServer(t), "/api/v1/aggregate?by=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTimeSeries(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/timeseries?period=year&metric=count")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Points []model.TimePoint `json:"points"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Points, 2)
	assert.InDelta(t, 3.0, body.Points[0].Value, 1e-9)

	rec = get(t, testServer(t), "/api/v1/timeseries?period=week")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExport(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/export.csv?agent=Trichoderma")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	want := "data,estado,cidade,agente_biologico,faixa_preco,preco\n" +
		"01/03/2024,SP,Campinas,Trichoderma,Single Band,42.50\n"
	assert.Equal(t, want, rec.Body.String())
}

func TestServesNothingBeforeFirstLoad(t *testing.T) {
	m := dataset.NewManager(&ingest.MockLoader{}, store.NewNoopStore())
	s := New(":0", m)

	rec := get(t, s, "/api/v1/stats")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
