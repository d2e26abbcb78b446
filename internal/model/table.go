package model

import "time"

// Table 解析后的二维表：表头 + 行（单元格为 string/float64/int/time.Time/bool/nil）
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"-"`
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex 返回列下标，不存在返回 -1
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column 复制出一列；缺失单元格为 nil
func (t *Table) Column(idx int) []any {
	if t == nil || idx < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Workbook 上传的工作簿：sheet 名 -> 表，保留原始 sheet 顺序
type Workbook struct {
	SheetNames []string          `json:"sheetNames"`
	Sheets     map[string]*Table `json:"-"`
}

// NewWorkbook 创建空工作簿
func NewWorkbook() *Workbook {
	return &Workbook{Sheets: make(map[string]*Table)}
}

// AddSheet 追加 sheet；同名覆盖但不改变顺序
func (w *Workbook) AddSheet(name string, t *Table) {
	if w.Sheets == nil {
		w.Sheets = make(map[string]*Table)
	}
	if _, ok := w.Sheets[name]; !ok {
		w.SheetNames = append(w.SheetNames, name)
	}
	w.Sheets[name] = t
}

// Empty 是否没有任何 sheet
func (w *Workbook) Empty() bool {
	return w == nil || len(w.SheetNames) == 0
}

// DateValue 归一化后的日期；Valid=false 表示无法解析
type DateValue struct {
	Time  time.Time
	Valid bool
}

// CanonicalTable 规范化后的记录表：保留原表，并附加各规范字段列
type CanonicalTable struct {
	Type      RecordType         `json:"type"`
	SheetName string             `json:"sheetName"`
	Source    *Table             `json:"-"`
	Dates     []DateValue        `json:"-"`
	Fields    map[Field][]string `json:"-"`

	// Sources 每个规范字段实际取自哪一列（未找到则不存在）
	Sources map[Field]string `json:"sources"`
	// Matched 命中该列的同义词（规则里的写法，不受表头大小写影响）
	Matched map[Field]string `json:"-"`
}

// Len 行数
func (c *CanonicalTable) Len() int {
	if c == nil {
		return 0
	}
	return c.Source.Len()
}

// Field 返回规范字段列；未派生时返回等长空白列
func (c *CanonicalTable) Field(f Field) []string {
	if c == nil {
		return nil
	}
	if col, ok := c.Fields[f]; ok {
		return col
	}
	return make([]string, c.Len())
}

// HasField 该字段是否匹配到了源列
func (c *CanonicalTable) HasField(f Field) bool {
	if c == nil {
		return false
	}
	_, ok := c.Sources[f]
	return ok
}

// DatedCount 可解析日期的行数
func (c *CanonicalTable) DatedCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.Dates {
		if d.Valid {
			n++
		}
	}
	return n
}
