package model

// SheetResolution 单个记录类型的 sheet 匹配结果
type SheetResolution struct {
	Type      RecordType       `json:"type"`
	SheetName string           `json:"sheetName"`
	Exact     bool             `json:"exact"` // 规范化后完全相等；否则为子串匹配
	Rows      int              `json:"rows"`
	Dated     int              `json:"dated"`
	Sources   map[Field]string `json:"sources"`
}

// SheetInfo 工作表信息
type SheetInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}
