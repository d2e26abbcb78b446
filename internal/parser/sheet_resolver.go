package parser

import (
	"strings"

	"vehs/internal/model"
)

// ResolveSheet 按候选名在工作簿中查找 sheet
// 先按归一化键精确匹配（候选顺序），再做子串匹配（候选顺序、sheet 原始顺序），找不到返回 false
func ResolveSheet(wb *model.Workbook, candidates ...string) (*model.Table, string, bool) {
	if wb.Empty() {
		return nil, "", false
	}

	keys := make([]string, len(wb.SheetNames))
	for i, name := range wb.SheetNames {
		keys[i] = NormalizeKey(name)
	}

	for _, c := range candidates {
		ck := NormalizeKey(c)
		if ck == "" {
			continue
		}
		for i, k := range keys {
			if k == ck {
				name := wb.SheetNames[i]
				return wb.Sheets[name], name, true
			}
		}
	}

	for _, c := range candidates {
		ck := NormalizeKey(c)
		if ck == "" {
			continue
		}
		for i, k := range keys {
			if strings.Contains(k, ck) {
				name := wb.SheetNames[i]
				return wb.Sheets[name], name, true
			}
		}
	}

	return nil, "", false
}

// ResolveRecord 用记录类型的 sheet 同义词解析
func ResolveRecord(wb *model.Workbook, t model.RecordType) (*model.Table, string, bool) {
	spec, ok := Spec(t)
	if !ok {
		return nil, "", false
	}
	return ResolveSheet(wb, spec.Sheets...)
}

// IsExactMatch 判断 sheet 名是否与某个候选精确匹配（归一化后）
func IsExactMatch(sheetName string, candidates ...string) bool {
	k := NormalizeKey(sheetName)
	for _, c := range candidates {
		if ck := NormalizeKey(c); ck != "" && ck == k {
			return true
		}
	}
	return false
}
