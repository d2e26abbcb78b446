package aggregator

import (
	"sort"
	"strings"

	"vehs/internal/model"
	"vehs/internal/parser"
)

// Pivot 完整列联表；任一侧为占位值的行被排除
// 行、列均按边际合计降序、标签升序排列
func Pivot(rows, cols []string) model.CrossTab {
	n := len(rows)
	if len(cols) < n {
		n = len(cols)
	}

	rg, cg := newGrouper(), newGrouper()
	cells := make(map[[2]int]int)
	for i := 0; i < n; i++ {
		r, c := strings.TrimSpace(rows[i]), strings.TrimSpace(cols[i])
		if parser.IsPlaceholder(r) || parser.IsPlaceholder(c) {
			continue
		}
		ri, ci := rg.add(r), cg.add(c)
		cells[[2]int{ri, ci}]++
	}
	if len(rg.groups) == 0 || len(cg.groups) == 0 {
		return model.CrossTab{RowLabels: []string{}, ColLabels: []string{}, Values: [][]int{}}
	}

	rowOrder := rankGroups(rg)
	colOrder := rankGroups(cg)

	ct := model.CrossTab{
		RowLabels: make([]string, len(rowOrder)),
		ColLabels: make([]string, len(colOrder)),
		Values:    make([][]int, len(rowOrder)),
	}
	for j, ci := range colOrder {
		ct.ColLabels[j] = cg.label(ci)
	}
	for i, ri := range rowOrder {
		ct.RowLabels[i] = rg.label(ri)
		row := make([]int, len(colOrder))
		for j, ci := range colOrder {
			row[j] = cells[[2]int{ri, ci}]
		}
		ct.Values[i] = row
	}
	return ct
}

// CrossTab 完整列联表按边际合计截取前 topRows 行、前 topCols 列
// 保留单元格的值与完整表一致；<=0 表示不截断
func CrossTab(rows, cols []string, topRows, topCols int) model.CrossTab {
	return Restrict(Pivot(rows, cols), topRows, topCols)
}

// Restrict 对已排好序的完整表做视图截取，不重新计数
func Restrict(full model.CrossTab, topRows, topCols int) model.CrossTab {
	nr, nc := len(full.RowLabels), len(full.ColLabels)
	if topRows > 0 && topRows < nr {
		nr = topRows
	}
	if topCols > 0 && topCols < nc {
		nc = topCols
	}
	out := model.CrossTab{
		RowLabels: append([]string{}, full.RowLabels[:nr]...),
		ColLabels: append([]string{}, full.ColLabels[:nc]...),
		Values:    make([][]int, nr),
	}
	for i := 0; i < nr; i++ {
		out.Values[i] = append([]int{}, full.Values[i][:nc]...)
	}
	return out
}

// ExpandMulti 把多值列按 "; " 展开，行值随之复制
func ExpandMulti(rows, cols []string) ([]string, []string) {
	n := len(rows)
	if len(cols) < n {
		n = len(cols)
	}
	outRows := make([]string, 0, n)
	outCols := make([]string, 0, n)
	for i := 0; i < n; i++ {
		for _, part := range strings.Split(cols[i], parser.MultiValueSeparator) {
			outRows = append(outRows, rows[i])
			outCols = append(outCols, part)
		}
	}
	return outRows, outCols
}

func rankGroups(g *grouper) []int {
	order := make([]int, len(g.groups))
	labels := make([]string, len(g.groups))
	for i := range order {
		order[i] = i
		labels[i] = g.label(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := g.groups[order[a]], g.groups[order[b]]
		if ga.count != gb.count {
			return ga.count > gb.count
		}
		return labels[order[a]] < labels[order[b]]
	})
	return order
}

// sortRowsByLabel 行按标签升序（用于时间行）
func sortRowsByLabel(ct *model.CrossTab) {
	idx := make([]int, len(ct.RowLabels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ct.RowLabels[idx[a]] < ct.RowLabels[idx[b]] })
	labels := make([]string, len(idx))
	values := make([][]int, len(idx))
	for i, j := range idx {
		labels[i] = ct.RowLabels[j]
		values[i] = ct.Values[j]
	}
	ct.RowLabels, ct.Values = labels, values
}
