package progress

import "sort"

// GroupSummary is the mean progress of one group.
type GroupSummary struct {
	Group string `json:"group"`

	// Mean is not rounded; alerts and ranking compare the exact value.
	Mean float64 `json:"mean"`

	// Items counts measured items; Excluded counts zero-quantity items.
	Items    int `json:"items"`
	Excluded int `json:"excluded"`
}

// Summary is the aggregate view of a calculated dataset.
type Summary struct {
	// GlobalAverage is not rounded.
	GlobalAverage float64 `json:"global_average"`
	Measured      int     `json:"measured"`
	Excluded      int     `json:"excluded"`

	// Groups is in first-seen order; Ranking is Groups by mean, descending.
	Groups  []GroupSummary `json:"groups"`
	Ranking []GroupSummary `json:"ranking"`

	// Unmeasured lists groups whose every item had zero planned quantity.
	Unmeasured []string `json:"unmeasured,omitempty"`

	Warnings []ZeroQuantityError `json:"warnings,omitempty"`
	Weighted bool                `json:"weighted"`
}

// Options controls aggregation.
type Options struct {
	// Weighted switches means to Σexecuted/Σtotal*100.
	Weighted bool
}

// accumulator collects sums for one mean.
type accumulator struct {
	pctSum      float64
	executedSum float64
	totalSum    float64
	measured    int
	excluded    int
}

func (a *accumulator) add(ip ItemProgress) {
	if !ip.Defined {
		a.excluded++
		return
	}
	a.measured++
	a.pctSum += ip.Pct
	a.executedSum += ip.Item.ExecutedQuantity
	a.totalSum += ip.Item.TotalQuantity
}

func (a *accumulator) mean(weighted bool) float64 {
	if a.measured == 0 {
		return 0
	}
	if weighted {
		return a.executedSum / a.totalSum * 100
	}
	return a.pctSum / float64(a.measured)
}

// Aggregate computes the global average, per-group means and ranking.
func Aggregate(items []ItemProgress) Summary {
	return AggregateWith(items, Options{})
}

// AggregateWith is Aggregate with explicit options.
func AggregateWith(items []ItemProgress, opts Options) Summary {
	var global accumulator
	var order []string
	byGroup := make(map[string]*accumulator)

	for _, ip := range items {
		global.add(ip)
		acc, ok := byGroup[ip.Item.Group]
		if !ok {
			acc = &accumulator{}
			byGroup[ip.Item.Group] = acc
			order = append(order, ip.Item.Group)
		}
		acc.add(ip)
	}

	summary := Summary{
		GlobalAverage: global.mean(opts.Weighted),
		Measured:      global.measured,
		Excluded:      global.excluded,
		Groups:        make([]GroupSummary, 0, len(order)),
		Warnings:      Warnings(items),
		Weighted:      opts.Weighted,
	}

	for _, group := range order {
		acc := byGroup[group]
		if acc.measured == 0 {
			summary.Unmeasured = append(summary.Unmeasured, group)
			continue
		}
		summary.Groups = append(summary.Groups, GroupSummary{
			Group:    group,
			Mean:     acc.mean(opts.Weighted),
			Items:    acc.measured,
			Excluded: acc.excluded,
		})
	}

	summary.Ranking = Rank(summary.Groups)
	return summary
}

// Rank returns groups sorted by mean, descending. Ties keep input order.
func Rank(groups []GroupSummary) []GroupSummary {
	ranked := append([]GroupSummary{}, groups...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Mean > ranked[j].Mean
	})
	return ranked
}

// Group returns the summary for a group, matched case-insensitively.
func (s Summary) Group(name string) (GroupSummary, bool) {
	for _, g := range s.Groups {
		if equalFoldTrim(g.Group, name) {
			return g, true
		}
	}
	return GroupSummary{}, false
}
