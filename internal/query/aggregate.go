package query

import (
	"fmt"
	"sort"
	"time"

	"BioDash/internal/model"
)

// Aggregate groups rows by a dimension and computes mean price, total, and
// count per group, sorted by total descending (chart order).
func Aggregate(rows []model.PurchaseRecord, by string) ([]model.GroupAggregate, error) {
	if !ValidField(by) {
		return nil, fmt.Errorf("unknown grouping dimension %q", by)
	}

	index := make(map[string]int)
	var groups []model.GroupAggregate
	for _, r := range rows {
		key, _ := fieldValue(r, by)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.GroupAggregate{Key: key})
		}
		groups[i].Total += r.Price
		groups[i].Count++
	}
	for i := range groups {
		groups[i].MeanPrice = groups[i].Total / float64(groups[i].Count)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total > groups[j].Total
	})
	return groups, nil
}

// Top truncates an aggregation to its n largest groups. The dashboard caps
// charts at 15 groups.
func Top(groups []model.GroupAggregate, n int) []model.GroupAggregate {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// Temporal series periods and metrics.
const (
	PeriodMonth = "month"
	PeriodYear  = "year"

	MetricTotal = "total"
	MetricMean  = "mean"
	MetricCount = "count"
)

// TimeSeries aggregates rows per (period, agent) cell, chronologically and
// then by agent name within the same period.
func TimeSeries(rows []model.PurchaseRecord, period, metric string) ([]model.TimePoint, error) {
	if period != PeriodMonth && period != PeriodYear {
		return nil, fmt.Errorf("unknown period %q", period)
	}
	if metric != MetricTotal && metric != MetricMean && metric != MetricCount {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	type cell struct {
		sum   float64
		count int
	}
	type key struct {
		period time.Time
		agent  string
	}

	cells := make(map[key]*cell)
	for _, r := range rows {
		p := truncatePeriod(r.Date, period)
		k := key{period: p, agent: r.Agent}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		c.sum += r.Price
		c.count++
	}

	points := make([]model.TimePoint, 0, len(cells))
	for k, c := range cells {
		var v float64
		switch metric {
		case MetricTotal:
			v = c.sum
		case MetricMean:
			v = c.sum / float64(c.count)
		case MetricCount:
			v = float64(c.count)
		}
		points = append(points, model.TimePoint{Period: k.period, Agent: k.agent, Value: v})
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].Period.Equal(points[j].Period) {
			return points[i].Period.Before(points[j].Period)
		}
		return points[i].Agent < points[j].Agent
	})
	return points, nil
}

func truncatePeriod(t time.Time, period string) time.Time {
	if period == PeriodYear {
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
