package exporter

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"vehs/internal/model"
)

// SummarySheet 总数汇总页名称
const SummarySheet = "Summary"

// maxSheetName Excel 工作表名长度上限
const maxSheetName = 31

// Exporter 知识库导出器：汇总页 + 每个分类计数一页
type Exporter struct {
	filename string
}

// NewExporter 创建导出器；filename 为来源工作簿名，只写进汇总页
func NewExporter(filename string) *Exporter {
	return &Exporter{filename: filename}
}

// Export 生成工作簿，调用方负责 Close
func (e *Exporter) Export(kb *model.KnowledgeBase) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := e.fillSummary(f, kb); err != nil {
		_ = f.Close()
		return nil, err
	}

	used := map[string]bool{SummarySheet: true}
	for _, key := range kb.Keys() {
		counts, ok := kb.Counts(key)
		if !ok {
			continue
		}
		name := sheetName(key, used)
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := fillCounts(f, name, key, counts); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// fillSummary 汇总页：来源文件 + 全部整数 key
func (e *Exporter) fillSummary(f *excelize.File, kb *model.KnowledgeBase) error {
	rows := [][]any{{"Key", "Value"}}
	if e.filename != "" {
		rows = append(rows, []any{"source_file", e.filename})
	}
	for _, key := range kb.Keys() {
		if n, ok := kb.Int(key); ok {
			rows = append(rows, []any{key, n})
		}
	}
	return writeRows(f, SummarySheet, rows)
}

// fillCounts 计数页；月度序列按月份升序，其余按计数降序、标签升序
func fillCounts(f *excelize.File, sheet, key string, counts map[string]int) error {
	items := make(model.FrequencyTable, 0, len(counts))
	for label, n := range counts {
		items = append(items, model.Count{Label: label, Count: n})
	}
	monthly := strings.HasSuffix(key, "_per_month")
	sort.Slice(items, func(i, j int) bool {
		if !monthly && items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})

	header := "Category"
	if monthly {
		header = "Month"
	}
	rows := make([][]any, 0, len(items)+1)
	rows = append(rows, []any{header, "Count"})
	for _, it := range items {
		rows = append(rows, []any{it.Label, it.Count})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// sheetName 截断到 31 个字符，重名时追加序号
func sheetName(key string, used map[string]bool) string {
	name := key
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf("~%d", i)
		base := key
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		name = base + suffix
	}
	used[name] = true
	return name
}

// ContentDisposition 下载文件名，附带 RFC 5987 编码的 UTF-8 文件名
func ContentDisposition(source string) string {
	base := strings.TrimSuffix(source, ".xlsx")
	base = strings.TrimSuffix(base, ".xlsm")
	if base == "" {
		base = "workbook"
	}
	return fmt.Sprintf("attachment; filename=\"insights.xlsx\"; filename*=UTF-8''%s",
		url.PathEscape(base+"-insights.xlsx"))
}
