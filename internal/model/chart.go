package model

// Dataset 图表数据序列
type Dataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// Chart 一维图表数据 {labels, datasets}
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// NewChart 由频次表构造单序列图表
func NewChart(label string, f FrequencyTable) Chart {
	return Chart{
		Labels:   f.Labels(),
		Datasets: []Dataset{{Label: label, Data: f.Values()}},
	}
}

// EmptyChart 空图表，保留一个空序列便于前端渲染
func EmptyChart(label string) Chart {
	return Chart{
		Labels:   []string{},
		Datasets: []Dataset{{Label: label, Data: []int{}}},
	}
}

// Heatmap 二维热力图数据
type Heatmap struct {
	XLabels []string `json:"x_labels"`
	YLabels []string `json:"y_labels"`
	Values  [][]int  `json:"values"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Title   string   `json:"title"`
}

// NewHeatmap 由交叉表构造热力图：行 -> y，列 -> x
func NewHeatmap(title string, ct CrossTab) Heatmap {
	lo, hi := ct.MinMax()
	h := Heatmap{
		XLabels: ct.ColLabels,
		YLabels: ct.RowLabels,
		Values:  ct.Values,
		Min:     lo,
		Max:     hi,
		Title:   title,
	}
	if h.XLabels == nil {
		h.XLabels = []string{}
	}
	if h.YLabels == nil {
		h.YLabels = []string{}
	}
	if h.Values == nil {
		h.Values = [][]int{}
	}
	return h
}

// TableData 问答附带的表格
type TableData struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// ChartBlock 一组图表 + 表格
type ChartBlock struct {
	ChartData *Chart     `json:"chart_data,omitempty"`
	TableData *TableData `json:"table_data,omitempty"`
}

// ChartPayload 问答流末尾附带的可视化元数据
type ChartPayload struct {
	ChartData   *Chart       `json:"chart_data,omitempty"`
	TableData   *TableData   `json:"table_data,omitempty"`
	Note        string       `json:"note,omitempty"`
	ChartBlocks []ChartBlock `json:"chart_blocks,omitempty"`
}

// Empty 是否没有任何可视化内容
func (p ChartPayload) Empty() bool {
	return p.ChartData == nil && p.TableData == nil && p.Note == "" && len(p.ChartBlocks) == 0
}
