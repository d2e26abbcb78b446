package model

// Count 单个分类的计数
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FrequencyTable 频次表：标签唯一
type FrequencyTable []Count

// Total 计数合计
func (f FrequencyTable) Total() int {
	n := 0
	for _, c := range f {
		n += c.Count
	}
	return n
}

// Labels 标签列表
func (f FrequencyTable) Labels() []string {
	out := make([]string, len(f))
	for i, c := range f {
		out[i] = c.Label
	}
	return out
}

// Values 计数列表
func (f FrequencyTable) Values() []int {
	out := make([]int, len(f))
	for i, c := range f {
		out[i] = c.Count
	}
	return out
}

// Get 按标签取计数，不存在返回 0
func (f FrequencyTable) Get(label string) int {
	for _, c := range f {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

// Map 转为 label -> count
func (f FrequencyTable) Map() map[string]int {
	out := make(map[string]int, len(f))
	for _, c := range f {
		out[c.Label] = c.Count
	}
	return out
}

// TimeSeries 时间序列：标签为期间（2024-01 / 2024Q1），按时间升序
type TimeSeries = FrequencyTable

// CrossTab 交叉表：行标签 × 列标签 -> 计数
type CrossTab struct {
	RowLabels []string `json:"rowLabels"`
	ColLabels []string `json:"colLabels"`
	Values    [][]int  `json:"values"`
}

// Empty 是否为空表
func (c CrossTab) Empty() bool {
	return len(c.RowLabels) == 0 || len(c.ColLabels) == 0
}

// Get 取单元格，行或列不存在返回 0
func (c CrossTab) Get(row, col string) int {
	ri, ci := -1, -1
	for i, r := range c.RowLabels {
		if r == row {
			ri = i
			break
		}
	}
	for i, cl := range c.ColLabels {
		if cl == col {
			ci = i
			break
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return c.Values[ri][ci]
}

// MinMax 全部单元格的最小/最大值，空表返回 0,0
func (c CrossTab) MinMax() (int, int) {
	first := true
	lo, hi := 0, 0
	for _, row := range c.Values {
		for _, v := range row {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
