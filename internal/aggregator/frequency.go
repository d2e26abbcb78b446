package aggregator

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"vehs/internal/model"
	"vehs/internal/parser"
)

// OthersLabel 截断后合并桶的标签
const OthersLabel = "Others"

// Options 频次统计选项
type Options struct {
	TopN           int  // <=0 表示不截断
	CollapseOthers bool // 截断时追加 Others 桶
	Split          bool // 按 "; " 拆分多值单元格
}

// Frequency 清洗后按值计数
// 分组忽略大小写，展示出现最多的写法（并列取先出现的）；
// 按计数降序、标签升序排列
func Frequency(values []string, opts Options) model.FrequencyTable {
	var cleaned []string
	if opts.Split {
		cleaned = parser.SplitMulti(values)
	} else {
		cleaned = parser.Clean(values)
	}

	g := newGrouper()
	for _, v := range cleaned {
		g.add(v)
	}
	full := g.table()
	return truncate(full, opts.TopN, opts.CollapseOthers)
}

// FrequencyCells 原始单元格列的频次
func FrequencyCells(values []any, opts Options) model.FrequencyTable {
	return Frequency(parser.CellStrings(values), opts)
}

func truncate(full model.FrequencyTable, topN int, collapse bool) model.FrequencyTable {
	if topN <= 0 || len(full) <= topN {
		return full
	}
	out := make(model.FrequencyTable, topN, topN+1)
	copy(out, full[:topN])
	if !collapse {
		return out
	}
	rest := 0
	for _, c := range full[topN:] {
		rest += c.Count
	}
	// 前 N 项里已有名为 Others 的真实分类时并入它，保持标签唯一
	for i := range out {
		if strings.EqualFold(out[i].Label, OthersLabel) {
			out[i].Count += rest
			sortCounts(out)
			return out
		}
	}
	return append(out, model.Count{Label: OthersLabel, Count: rest})
}

func sortCounts(f model.FrequencyTable) {
	sort.SliceStable(f, func(i, j int) bool {
		if f[i].Count != f[j].Count {
			return f[i].Count > f[j].Count
		}
		return f[i].Label < f[j].Label
	})
}

// grouper 忽略大小写的分组计数
type grouper struct {
	fold   cases.Caser
	index  map[string]int
	groups []*group
}

type group struct {
	count    int
	variants map[string]int
	order    []string
}

func newGrouper() *grouper {
	return &grouper{fold: cases.Fold(), index: make(map[string]int)}
}

// add 计入一个值，返回分组下标
func (g *grouper) add(v string) int {
	return g.addN(v, 1)
}

func (g *grouper) addN(v string, n int) int {
	key := g.fold.String(v)
	idx, ok := g.index[key]
	if !ok {
		idx = len(g.groups)
		g.index[key] = idx
		g.groups = append(g.groups, &group{variants: make(map[string]int)})
	}
	gr := g.groups[idx]
	if _, seen := gr.variants[v]; !seen {
		gr.order = append(gr.order, v)
	}
	gr.variants[v] += n
	gr.count += n
	return idx
}

// lookup 返回值所在分组下标
func (g *grouper) lookup(v string) (int, bool) {
	idx, ok := g.index[g.fold.String(v)]
	return idx, ok
}

func (g *grouper) label(idx int) string {
	gr := g.groups[idx]
	best, bestN := "", -1
	for _, v := range gr.order {
		if gr.variants[v] > bestN {
			best, bestN = v, gr.variants[v]
		}
	}
	return best
}

func (g *grouper) table() model.FrequencyTable {
	out := make(model.FrequencyTable, len(g.groups))
	for i, gr := range g.groups {
		out[i] = model.Count{Label: g.label(i), Count: gr.count}
	}
	sortCounts(out)
	return out
}
