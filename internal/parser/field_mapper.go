package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehs/internal/model"
)

// FieldMapper 表头查找器：先精确匹配，再忽略大小写与空白匹配
type FieldMapper struct {
	columns []string
	exact   map[string]int
	loose   map[string]int
}

// NewFieldMapper 创建字段映射器；重名列取第一个
func NewFieldMapper(columns []string) *FieldMapper {
	m := &FieldMapper{
		columns: columns,
		exact:   make(map[string]int, len(columns)),
		loose:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, ok := m.exact[col]; !ok {
			m.exact[col] = i
		}
		k := headerKey(col)
		if _, ok := m.loose[k]; !ok && k != "" {
			m.loose[k] = i
		}
	}
	return m
}

// Lookup 按同义词优先级查找第一个存在的列
// 返回列下标、实际列名、命中的同义词
func (m *FieldMapper) Lookup(synonyms []string) (int, string, string, bool) {
	for _, s := range synonyms {
		if idx, ok := m.exact[s]; ok {
			return idx, m.columns[idx], s, true
		}
	}
	for _, s := range synonyms {
		if idx, ok := m.loose[headerKey(s)]; ok {
			return idx, m.columns[idx], s, true
		}
	}
	return -1, "", "", false
}

// Canonicalize 按记录类型规则为表派生规范字段列
// 原表不被修改；未匹配的字段得到等长空白列
func Canonicalize(table *model.Table, t model.RecordType) *model.CanonicalTable {
	if table == nil {
		table = &model.Table{}
	}
	n := table.Len()
	ct := &model.CanonicalTable{
		Type:    t,
		Source:  table,
		Dates:   make([]model.DateValue, n),
		Fields:  make(map[model.Field][]string),
		Sources: make(map[model.Field]string),
		Matched: make(map[model.Field]string),
	}
	spec, ok := Spec(t)
	if !ok {
		return ct
	}

	mapper := NewFieldMapper(table.Columns)
	title := cases.Title(language.English)

	for _, fs := range spec.Fields {
		if fs.Field == model.FieldDate {
			if dates, col, ok := canonicalDates(table, mapper, fs.Headers); ok {
				ct.Dates = dates
				ct.Sources[model.FieldDate] = col
			}
			continue
		}

		idx, col, synonym, ok := mapper.Lookup(fs.Headers)
		if !ok {
			ct.Fields[fs.Field] = make([]string, n)
			continue
		}
		out := make([]string, n)
		for i, v := range table.Column(idx) {
			s := strings.TrimSpace(CellString(v))
			if fs.TitleCase && !IsPlaceholder(s) {
				s = title.String(s)
			}
			out[i] = s
		}
		ct.Fields[fs.Field] = out
		ct.Sources[fs.Field] = col
		ct.Matched[fs.Field] = synonym
	}

	// 规则里没有的字段也补空白列
	for _, f := range model.CategoricalFields {
		if _, ok := ct.Fields[f]; !ok {
			ct.Fields[f] = make([]string, n)
		}
	}
	return ct
}

// canonicalDates 依次尝试同义词列，取第一个至少能解析出一个日期的列；
// 都不行时退回到列名含 "date" 的其它列
func canonicalDates(table *model.Table, mapper *FieldMapper, synonyms []string) ([]model.DateValue, string, bool) {
	tried := make(map[int]bool)
	for _, s := range synonyms {
		idx, col, _, ok := mapper.Lookup([]string{s})
		if !ok || tried[idx] {
			continue
		}
		tried[idx] = true
		dates := NormalizeDates(table.Column(idx))
		if anyValid(dates) {
			return dates, col, true
		}
	}
	for idx, col := range table.Columns {
		if tried[idx] || !strings.Contains(NormalizeKey(col), "date") {
			continue
		}
		dates := NormalizeDates(table.Column(idx))
		if anyValid(dates) {
			return dates, col, true
		}
	}
	return nil, "", false
}

// SplitMulti 按多值分隔符拆分并清洗
func SplitMulti(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, MultiValueSeparator) {
			part = strings.TrimSpace(part)
			if !IsPlaceholder(part) {
				out = append(out, part)
			}
		}
	}
	return out
}

// MapParentDates 发现项通过标题关联父记录的日期
// 标题对应多个父记录时取第一个有效日期
func MapParentDates(findings, parent *model.CanonicalTable) []model.DateValue {
	if findings == nil {
		return nil
	}
	out := make([]model.DateValue, findings.Len())
	if parent == nil || !findings.HasField(model.FieldTitle) || !parent.HasField(model.FieldTitle) {
		return out
	}
	byTitle := make(map[string]model.DateValue)
	for i, title := range parent.Field(model.FieldTitle) {
		if i >= len(parent.Dates) || !parent.Dates[i].Valid || IsPlaceholder(title) {
			continue
		}
		if _, ok := byTitle[title]; !ok {
			byTitle[title] = parent.Dates[i]
		}
	}
	for i, title := range findings.Field(model.FieldTitle) {
		if d, ok := byTitle[title]; ok {
			out[i] = d
		}
	}
	return out
}

// EffectiveDates 记录自身日期；发现项在自身没有日期时改用父记录日期
func EffectiveDates(ct *model.CanonicalTable, tables map[model.RecordType]*model.CanonicalTable) []model.DateValue {
	if ct == nil {
		return nil
	}
	if ct.DatedCount() > 0 {
		return ct.Dates
	}
	if p, ok := ct.Type.Parent(); ok {
		return MapParentDates(ct, tables[p])
	}
	return ct.Dates
}
