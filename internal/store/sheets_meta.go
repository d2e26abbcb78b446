package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"vehs/internal/model"
)

// SheetMeta 某次上传中一个记录类型命中的 sheet（用于追溯）
type SheetMeta struct {
	RecordType    model.RecordType       `json:"recordType"`
	SheetName     string                 `json:"sheetName"`
	Exact         bool                   `json:"exact"`
	TotalRows     int                    `json:"totalRows"`
	DatedRows     int                    `json:"datedRows"`
	ColumnMapping map[model.Field]string `json:"columnMapping"`
}

func insertSheetMeta(tx *sql.Tx, importLogID int64, r model.SheetResolution) error {
	_, err := tx.Exec(`
		INSERT INTO sheets_meta (
			import_log_id, record_type, sheet_name, exact_match,
			total_rows, dated_rows, column_mapping_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		importLogID, string(r.Type), r.SheetName, r.Exact,
		r.Rows, r.Dated, BuildColumnMappingJSON(r.Sources),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheets_meta: %w", err)
	}
	return nil
}

// ListSheetMeta 某次上传的 sheet 匹配记录，按写入顺序
func (s *Store) ListSheetMeta(importLogID int64) ([]SheetMeta, error) {
	rows, err := s.db.Query(`
		SELECT record_type, sheet_name, exact_match, total_rows, dated_rows, column_mapping_json
		FROM sheets_meta WHERE import_log_id = ? ORDER BY id
	`, importLogID)
	if err != nil {
		return nil, fmt.Errorf("query sheets_meta failed: %w", err)
	}
	defer rows.Close()

	out := []SheetMeta{}
	for rows.Next() {
		var (
			m       SheetMeta
			typ     string
			mapping string
		)
		if err := rows.Scan(&typ, &m.SheetName, &m.Exact, &m.TotalRows, &m.DatedRows, &mapping); err != nil {
			return nil, fmt.Errorf("scan sheets_meta failed: %w", err)
		}
		m.RecordType = model.RecordType(typ)
		if err := json.Unmarshal([]byte(mapping), &m.ColumnMapping); err != nil {
			return nil, fmt.Errorf("decode column mapping failed: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheets_meta failed: %w", err)
	}
	return out, nil
}

// BuildColumnMappingJSON 将字段 -> 列名映射序列化为 JSON
func BuildColumnMappingJSON(sources map[model.Field]string) string {
	if len(sources) == 0 {
		return "{}"
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return "{}"
	}
	return string(b)
}
