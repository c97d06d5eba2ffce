package query

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BioDash/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func row(y, m, d int, state, city, agent string, price float64, band string) model.PurchaseRecord {
	return model.PurchaseRecord{
		Date: date(y, m, d), Year: y, Month: m, Day: d,
		State: state, City: city, Agent: agent, Price: price, BandLabel: band,
	}
}

func fixtureRows() []model.PurchaseRecord {
	return []model.PurchaseRecord{
		row(2023, 1, 10, "SP", "Campinas", "Bacillus", 11, "Band 1"),
		row(2023, 1, 15, "SP", "Piracicaba", "Bacillus", 13, "Band 1"),
		row(2023, 2, 5, "MG", "Uberaba", "Bacillus", 386, "Band 3"),
		row(2023, 2, 20, "SP", "Campinas", "Trichoderma", 42.5, "Single Band"),
		row(2024, 3, 1, "RJ", "Campos", "Bacillus", 13667, "Band 4"),
	}
}

func TestApply_ConjunctiveFilters(t *testing.T) {
	rows := fixtureRows()

	assert.Len(t, Apply(rows, Filter{}), 5)
	assert.Len(t, Apply(rows, Filter{Year: 2023}), 4)
	assert.Len(t, Apply(rows, Filter{Year: 2023, State: "SP"}), 3)
	assert.Len(t, Apply(rows, Filter{Year: 2023, State: "SP", Agent: "Bacillus"}), 2)
	assert.Len(t, Apply(rows, Filter{Band: "Band 1"}), 2)
	assert.Empty(t, Apply(rows, Filter{State: "SP", City: "Campos"}))
}

func TestOptions_Cascading(t *testing.T) {
	rows := fixtureRows()

	assert.Equal(t, []string{"MG", "RJ", "SP"}, Options(rows, ByState))

	// Selecting a state narrows the city options, dropdown style.
	sp := Apply(rows, Filter{State: "SP"})
	assert.Equal(t, []string{"Campinas", "Piracicaba"}, Options(sp, ByCity))

	// Numeric dimensions sort numerically, not lexically.
	assert.Equal(t, []string{"1", "2", "3"}, Options(rows, ByMonth))
	assert.Equal(t, []string{"1", "5", "10", "15", "20"}, Options(rows, ByDay))

	assert.Nil(t, Options(rows, "nope"))
	assert.True(t, ValidField(ByBand))
	assert.False(t, ValidField("nope"))
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixtureRows())

	assert.Equal(t, 5, s.Records)
	assert.Equal(t, 2, s.Agents)
	assert.Equal(t, 3, s.States)
	assert.Equal(t, 4, s.Cities)
	assert.InDelta(t, 14119.5, s.Total, 1e-9)
	assert.InDelta(t, 14119.5/5, s.MeanPrice, 1e-9)
	assert.Equal(t, date(2023, 1, 10), s.DateMin)
	assert.Equal(t, date(2024, 3, 1), s.DateMax)

	assert.Equal(t, model.Summary{}, Summarize(nil))
}

func TestAggregate_SortedByTotalDesc(t *testing.T) {
	groups, err := Aggregate(fixtureRows(), ByAgent)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Bacillus", groups[0].Key)
	assert.Equal(t, 4, groups[0].Count)
	assert.InDelta(t, 14077.0, groups[0].Total, 1e-9)
	assert.InDelta(t, 14077.0/4, groups[0].MeanPrice, 1e-9)

	assert.Equal(t, "Trichoderma", groups[1].Key)
	assert.Equal(t, 1, groups[1].Count)

	_, err = Aggregate(fixtureRows(), "nope")
	assert.Error(t, err)
}

func TestTop(t *testing.T) {
	groups, err := Aggregate(fixtureRows(), ByCity)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Len(t, Top(groups, 2), 2)
	assert.Len(t, Top(groups, 15), 4)
	assert.Len(t, Top(groups, 0), 4)
}

func TestTimeSeries(t *testing.T) {
	points, err := TimeSeries(fixtureRows(), PeriodMonth, MetricTotal)
	require.NoError(t, err)
	require.Len(t, points, 4) // (2023-01, 2023-02 x2 agents, 2024-03) cells

	assert.Equal(t, date(2023, 1, 1), points[0].Period)
	assert.Equal(t, "Bacillus", points[0].Agent)
	assert.InDelta(t, 24.0, points[0].Value, 1e-9)

	// Same period sorts by agent name.
	assert.Equal(t, date(2023, 2, 1), points[1].Period)
	assert.Equal(t, "Bacillus", points[1].Agent)
	assert.Equal(t, date(2023, 2, 1), points[2].Period)
	assert.Equal(t, "Trichoderma", points[2].Agent)

	counts, err := TimeSeries(fixtureRows(), PeriodYear, MetricCount)
	require.NoError(t, err)
	require.Len(t, counts, 3) // (2023 Bacillus, 2023 Trichoderma, 2024 Bacillus)
	assert.InDelta(t, 3.0, counts[0].Value, 1e-9)

	means, err := TimeSeries(fixtureRows(), PeriodMonth, MetricMean)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, means[0].Value, 1e-9)

	_, err = TimeSeries(fixtureRows(), "week", MetricTotal)
	assert.Error(t, err)
	_, err = TimeSeries(fixtureRows(), PeriodMonth, "median")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureRows()[:2]))

	want := "data,estado,cidade,agente_biologico,faixa_preco,preco\n" +
		"10/01/2023,SP,Campinas,Bacillus,Band 1,11.00\n" +
		"15/01/2023,SP,Piracicaba,Bacillus,Band 1,13.00\n"
	assert.Equal(t, want, buf.String())
}
