package parser

import "vehs/internal/model"

// CanonicalizeWorkbook 解析全部记录类型；同一个 sheet 可以被多个类型命中
func CanonicalizeWorkbook(wb *model.Workbook) (map[model.RecordType]*model.CanonicalTable, model.ResolveResult) {
	tables := make(map[model.RecordType]*model.CanonicalTable)
	result := model.ResolveResult{
		MissingTypes: []model.RecordType{},
		UnusedSheets: []string{},
	}
	if wb == nil {
		result.MissingTypes = append(result.MissingTypes, model.AllRecordTypes...)
		return tables, result
	}

	used := make(map[string]bool)
	for _, spec := range recordSpecs {
		table, name, ok := ResolveSheet(wb, spec.Sheets...)
		if !ok {
			result.MissingTypes = append(result.MissingTypes, spec.Type)
			continue
		}
		ct := Canonicalize(table, spec.Type)
		ct.SheetName = name
		tables[spec.Type] = ct
		used[name] = true

		sources := make(map[model.Field]string, len(ct.Sources))
		for f, col := range ct.Sources {
			sources[f] = col
		}
		result.Resolved = append(result.Resolved, model.SheetResolution{
			Type:      spec.Type,
			SheetName: name,
			Exact:     IsExactMatch(name, spec.Sheets...),
			Rows:      ct.Len(),
			Dated:     ct.DatedCount(),
			Sources:   sources,
		})
		result.ResolvedRows += ct.Len()
	}

	result.TotalSheets = len(wb.SheetNames)
	for _, name := range wb.SheetNames {
		result.TotalRows += wb.Sheets[name].Len()
		if !used[name] {
			result.UnusedSheets = append(result.UnusedSheets, name)
		}
	}
	return tables, result
}
