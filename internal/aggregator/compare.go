package aggregator

import (
	"sort"

	"vehs/internal/model"
)

// Union 多个来源在同一标签集上的计数
// 标签取并集（忽略大小写），按各来源合计降序、标签升序，截取 topN，缺失补 0
func Union(topN int, series ...[]string) ([]string, [][]int) {
	freqs := make([]model.FrequencyTable, len(series))
	g := newGrouper()
	for i, s := range series {
		freqs[i] = Frequency(s, Options{})
		for _, c := range freqs[i] {
			g.addN(c.Label, c.Count)
		}
	}

	type row struct {
		label  string
		total  int
		counts []int
	}
	rows := make([]row, len(g.groups))
	for i, gr := range g.groups {
		rows[i] = row{label: g.label(i), total: gr.count, counts: make([]int, len(series))}
	}
	for si, f := range freqs {
		for _, c := range f {
			idx, _ := g.lookup(c.Label)
			rows[idx].counts[si] = c.Count
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].label < rows[j].label
	})
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	labels := make([]string, len(rows))
	data := make([][]int, len(series))
	for si := range data {
		data[si] = make([]int, len(rows))
	}
	for i, r := range rows {
		labels[i] = r.label
		for si, n := range r.counts {
			data[si][i] = n
		}
	}
	return labels, data
}

// UnionCompare 两个来源在同一标签集上的对比
func UnionCompare(a, b []string, topN int) (model.FrequencyTable, model.FrequencyTable) {
	labels, data := Union(topN, a, b)
	outA := make(model.FrequencyTable, len(labels))
	outB := make(model.FrequencyTable, len(labels))
	for i, l := range labels {
		outA[i] = model.Count{Label: l, Count: data[0][i]}
		outB[i] = model.Count{Label: l, Count: data[1][i]}
	}
	return outA, outB
}
