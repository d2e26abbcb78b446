package store

import (
	"database/sql"
	"fmt"
	"time"

	"vehs/internal/model"
)

// 上传状态
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ImportLog 一次上传的历史记录
type ImportLog struct {
	ID            int64      `json:"id"`
	UploadID      string     `json:"uploadId"`
	Filename      string     `json:"filename"`
	FileSize      int64      `json:"fileSize"`
	FileHash      string     `json:"fileHash"`
	Status        string     `json:"status"`
	TotalSheets   int        `json:"totalSheets"`
	ResolvedTypes int        `json:"resolvedTypes"`
	TotalRows     int        `json:"totalRows"`
	ResolvedRows  int        `json:"resolvedRows"`
	KBKeys        int        `json:"kbKeys"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建上传日志，返回 import_log_id
func (s *Store) CreateImportLog(filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, file_size, file_hash, status)
		VALUES (?, ?, ?, ?)
	`, filename, fileSize, fileHash, StatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog 记录解析结果与每个类型命中的 sheet
func (s *Store) CompleteImportLog(id int64, uploadID string, res model.ResolveResult, kbKeys int) error {
	tx, err := s.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE import_logs SET
			upload_id = ?,
			status = ?,
			total_sheets = ?,
			resolved_types = ?,
			total_rows = ?,
			resolved_rows = ?,
			kb_keys = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, uploadID, StatusCompleted, res.TotalSheets, len(res.Resolved), res.TotalRows, res.ResolvedRows, kbKeys, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}

	for _, r := range res.Resolved {
		if err := insertSheetMeta(tx, id, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import log: %w", err)
	}
	return nil
}

// FailImportLog 标记上传失败
func (s *Store) FailImportLog(id int64, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

const importLogColumns = `
	id, upload_id, filename, file_size, file_hash, status,
	total_sheets, resolved_types, total_rows, resolved_rows, kb_keys,
	error_message, created_at, completed_at`

// ListImportLogs 最近的上传记录（新的在前）
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+importLogColumns+` FROM import_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		it, err := scanImportLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}

// LastCompleted 最近一次成功的上传；没有时返回 nil
func (s *Store) LastCompleted() (*ImportLog, error) {
	row := s.db.QueryRow(`SELECT `+importLogColumns+` FROM import_logs WHERE status = ? ORDER BY id DESC LIMIT 1`, StatusCompleted)
	it, err := scanImportLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportLog(r rowScanner) (ImportLog, error) {
	var (
		it          ImportLog
		completedAt sql.NullTime
	)
	err := r.Scan(
		&it.ID, &it.UploadID, &it.Filename, &it.FileSize, &it.FileHash, &it.Status,
		&it.TotalSheets, &it.ResolvedTypes, &it.TotalRows, &it.ResolvedRows, &it.KBKeys,
		&it.ErrorMessage, &it.CreatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return it, err
	}
	if err != nil {
		return it, fmt.Errorf("scan import log failed: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		it.CompletedAt = &t
	}
	return it, nil
}
