package insights

import (
	"vehs/internal/aggregator"
	"vehs/internal/model"
	"vehs/internal/parser"
)

// DefaultMaxCategories 单个分类计数表的默认上限（超出部分合并为 Others）
const DefaultMaxCategories = 50

// Options 知识库构建选项
type Options struct {
	MaxCategories int
}

func (o Options) maxCategories() int {
	if o.MaxCategories <= 0 {
		return DefaultMaxCategories
	}
	return o.MaxCategories
}

// TotalKey 等函数拼接知识库 key：{prefix}_total / _total_dated / _per_month / _by_{dimension}
func TotalKey(t model.RecordType) string      { return t.KeyPrefix() + "_total" }
func TotalDatedKey(t model.RecordType) string { return t.KeyPrefix() + "_total_dated" }
func PerMonthKey(t model.RecordType) string   { return t.KeyPrefix() + "_per_month" }
func ByKey(t model.RecordType, dimension string) string {
	return t.KeyPrefix() + "_by_" + dimension
}

// Build 从工作簿构建知识库，只包含聚合结果
func Build(wb *model.Workbook, opts Options) *model.KnowledgeBase {
	tables, _ := parser.CanonicalizeWorkbook(wb)
	return BuildFromTables(tables, opts)
}

// BuildFromTables 从已规范化的表构建知识库
// 缺失的类型或字段直接省略对应 key
func BuildFromTables(tables map[model.RecordType]*model.CanonicalTable, opts Options) *model.KnowledgeBase {
	kb := model.NewKnowledgeBase()
	limit := opts.maxCategories()

	for _, t := range model.AllRecordTypes {
		ct := tables[t]
		if ct == nil || ct.Len() == 0 {
			continue
		}
		kb.SetTotal(TotalKey(t), ct.Len())

		series := aggregator.MonthlyDates(parser.EffectiveDates(ct, tables))
		if dated := series.Total(); dated > 0 {
			kb.SetTotal(TotalDatedKey(t), dated)
			kb.SetCounts(PerMonthKey(t), series.Map())
		}

		spec, _ := parser.Spec(t)
		for _, fs := range spec.Fields {
			if fs.Dimension == "" || !ct.HasField(fs.Field) {
				continue
			}
			dim := fs.DimensionFor(ct.Matched[fs.Field])
			f := aggregator.Frequency(ct.Field(fs.Field), aggregator.Options{
				TopN:           limit,
				CollapseOthers: true,
				Split:          fs.Multi,
			})
			kb.SetCounts(ByKey(t, dim), f.Map())
		}
	}
	return kb
}
