package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"vehs/internal/model"
)

// ErrNoFile 尚未加载文件
var ErrNoFile = errors.New("no file loaded")

// Parser Excel 解析器：把上传的 xlsx 读成 model.Workbook
type Parser struct {
	file *excelize.File
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{}
}

// LoadFile 加载Excel文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	p.file = file
	return nil
}

// Close 释放 excelize 临时文件
func (p *Parser) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// SheetInfos 由已读出的工作簿生成 sheet 列表（行数不含表头），不再重复读取文件
func SheetInfos(wb *model.Workbook) []model.SheetInfo {
	if wb == nil {
		return []model.SheetInfo{}
	}
	out := make([]model.SheetInfo, 0, len(wb.SheetNames))
	for _, name := range wb.SheetNames {
		out = append(out, model.SheetInfo{Name: name, RowCount: wb.Sheets[name].Len()})
	}
	return out
}

// Workbook 读取全部 sheet
func (p *Parser) Workbook() (*model.Workbook, error) {
	if p.file == nil {
		return nil, ErrNoFile
	}
	return ReadWorkbook(p.file)
}

// LoadWorkbook 从 reader 一次性读出工作簿
func LoadWorkbook(reader io.Reader) (*model.Workbook, error) {
	p := NewParser()
	if err := p.LoadFile(reader); err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Workbook()
}

// ReadWorkbook 把 excelize 文件转为 model.Workbook，保持 sheet 顺序
// 读不出来的 sheet 记为空表，不影响其它 sheet
func ReadWorkbook(f *excelize.File) (*model.Workbook, error) {
	if f == nil {
		return nil, ErrNoFile
	}
	wb := model.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			wb.AddSheet(name, &model.Table{Columns: []string{}})
			continue
		}
		wb.AddSheet(name, buildTable(rows))
	}
	return wb, nil
}

// buildTable 第一行为表头，其余为数据行；全空行丢弃
// 单元格为原始值文本（日期保持序列号），空单元格为 nil
func buildTable(rows [][]string) *model.Table {
	t := &model.Table{Columns: []string{}, Rows: [][]any{}}
	if len(rows) == 0 {
		return t
	}

	width := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	t.Columns = readHeaderRow(rows[0], width)

	for _, r := range rows[1:] {
		row := make([]any, width)
		blank := true
		for i, cell := range r {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[i] = cell
			blank = false
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// readHeaderRow 表头去首尾空白；空表头记为 "Unnamed: i"，重名追加 ".1" ".2"
func readHeaderRow(header []string, width int) []string {
	cols := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for {
				suffix[base]++
				name = fmt.Sprintf("%s.%d", base, suffix[base])
				if !used[name] {
					break
				}
			}
		}
		used[name] = true
		cols[i] = name
	}
	return cols
}
