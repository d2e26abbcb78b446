package insights

import (
	"strings"

	"vehs/internal/model"
)

var (
	locationWords = []string{"location", "where", "area", "line", "department"}
	totalsWords   = []string{"total", "count", "overall"}
	trendWords    = []string{"month", "monthly", "trend"}
)

// locationDimensions 视为"位置类"的维度
var locationDimensions = []string{"location", "area", "line", "department"}

// Intent 问题中识别出的意图
type Intent struct {
	Types    []model.RecordType
	Location bool
	Totals   bool
	Trend    bool
}

// ParseIntent 小写后做关键词包含判断
// finding 用来区分父记录和发现项；只出现 finding 时两类发现项都算
func ParseIntent(question string) Intent {
	q := strings.ToLower(question)
	in := Intent{
		Location: containsAny(q, locationWords),
		Totals:   containsAny(q, totalsWords),
		Trend:    containsAny(q, trendWords),
	}
	finding := strings.Contains(q, "finding")
	audit := strings.Contains(q, "audit")
	inspection := strings.Contains(q, "inspection")

	if strings.Contains(q, "incident") {
		in.Types = append(in.Types, model.RecordTypeIncident)
	}
	if strings.Contains(q, "hazard") {
		in.Types = append(in.Types, model.RecordTypeHazard)
	}
	if audit && !finding {
		in.Types = append(in.Types, model.RecordTypeAudit)
	}
	if (audit || !inspection) && finding {
		in.Types = append(in.Types, model.RecordTypeAuditFinding)
	}
	if inspection && !finding {
		in.Types = append(in.Types, model.RecordTypeInspection)
	}
	if (inspection || !audit) && finding {
		in.Types = append(in.Types, model.RecordTypeInspectionFinding)
	}
	return in
}

// Select 按问题挑选相关的知识库子集；相同输入总是得到相同结果
func Select(kb *model.KnowledgeBase, question string) map[string]any {
	in := ParseIntent(question)
	rel := make(map[string]any)
	add := func(keys ...string) {
		for _, k := range keys {
			if v, ok := kb.Get(k); ok {
				rel[k] = copyValue(v)
			}
		}
	}
	keys := kb.Keys()

	for _, t := range in.Types {
		if in.Location {
			add(locationKeys(keys, t)...)
		} else {
			add(PerMonthKey(t))
			add(categoryKeys(keys, t)...)
		}
		if in.Trend {
			add(PerMonthKey(t))
		}
		add(TotalKey(t), TotalDatedKey(t))
	}

	if len(in.Types) == 0 {
		if in.Location {
			for _, t := range model.AllRecordTypes {
				add(locationKeys(keys, t)...)
			}
		}
		if in.Totals {
			for _, t := range model.AllRecordTypes {
				add(TotalKey(t), TotalDatedKey(t))
			}
		}
	}

	if len(rel) == 0 {
		for _, t := range model.AllRecordTypes {
			add(PerMonthKey(t))
		}
	}
	return rel
}

// locationKeys 某类型的位置类 key
func locationKeys(keys []string, t model.RecordType) []string {
	var out []string
	for _, d := range locationDimensions {
		k := ByKey(t, d)
		for _, have := range keys {
			if have == k {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// categoryKeys 某类型除位置以外的分类 key（含部门/产线）
func categoryKeys(keys []string, t model.RecordType) []string {
	prefix := t.KeyPrefix() + "_by_"
	var out []string
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		dim := strings.TrimPrefix(k, prefix)
		if dim == "location" || dim == "area" {
			continue
		}
		out = append(out, k)
	}
	return out
}

func copyValue(v any) any {
	if m, ok := v.(map[string]int); ok {
		cp := make(map[string]int, len(m))
		for k, n := range m {
			cp[k] = n
		}
		return cp
	}
	return v
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
