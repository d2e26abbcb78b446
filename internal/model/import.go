package model

// ResolveResult 一次上传的 sheet 角色映射
type ResolveResult struct {
	Resolved     []SheetResolution `json:"resolved"`
	MissingTypes []RecordType      `json:"missingTypes"`
	UnusedSheets []string          `json:"unusedSheets"`
	TotalSheets  int               `json:"totalSheets"`
	TotalRows    int               `json:"totalRows"`
	ResolvedRows int               `json:"resolvedRows"`
}
