package store

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vehs/internal/insights"
	"vehs/internal/model"
	"vehs/internal/parser"
)

// ErrEmpty 尚未加载任何工作簿
var ErrEmpty = errors.New("no workbook loaded")

// Snapshot 一次上传得到的只读数据：原始工作簿、规范化表、知识库
// 创建后不再修改，替换时整体换掉
type Snapshot struct {
	ID         string
	Filename   string
	LoadedAt   time.Time
	Workbook   *model.Workbook
	Tables     map[model.RecordType]*model.CanonicalTable
	Resolution model.ResolveResult
	KB         *model.KnowledgeBase
	KBBuiltAt  time.Time
}

// NewSnapshot 解析工作簿并构建知识库
func NewSnapshot(filename string, wb *model.Workbook, opts insights.Options) *Snapshot {
	tables, res := parser.CanonicalizeWorkbook(wb)
	now := time.Now()
	return &Snapshot{
		ID:         uuid.New().String(),
		Filename:   filename,
		LoadedAt:   now,
		Workbook:   wb,
		Tables:     tables,
		Resolution: res,
		KB:         insights.BuildFromTables(tables, opts),
		KBBuiltAt:  now,
	}
}

// Table 取某类型的规范化表；未匹配返回 nil
func (s *Snapshot) Table(t model.RecordType) *model.CanonicalTable {
	if s == nil {
		return nil
	}
	return s.Tables[t]
}

// Rows 某类型行数
func (s *Snapshot) Rows(t model.RecordType) int {
	return s.Table(t).Len()
}

// withKB 复制快照并换上新知识库
func (s *Snapshot) withKB(kb *model.KnowledgeBase) *Snapshot {
	cp := *s
	cp.KB = kb
	cp.KBBuiltAt = time.Now()
	return &cp
}

// MemoryStore 内存会话存储：当前快照通过原子指针整体替换，读无需加锁
type MemoryStore struct {
	current atomic.Pointer[Snapshot]
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Current 当前快照；未上传返回 nil
func (s *MemoryStore) Current() *Snapshot {
	return s.current.Load()
}

// Loaded 是否已有数据
func (s *MemoryStore) Loaded() bool {
	return s.current.Load() != nil
}

// Replace 用新快照替换当前快照
func (s *MemoryStore) Replace(snap *Snapshot) {
	s.current.Store(snap)
}

// Load 解析工作簿并替换当前快照
func (s *MemoryStore) Load(filename string, wb *model.Workbook, opts insights.Options) *Snapshot {
	snap := NewSnapshot(filename, wb, opts)
	s.Replace(snap)
	return snap
}

// Recompute 基于当前工作簿重建知识库
// 期间若有新的上传，重建作用于新的快照，不会覆盖它
func (s *MemoryStore) Recompute(opts insights.Options) (*Snapshot, error) {
	for {
		cur := s.current.Load()
		if cur == nil {
			return nil, ErrEmpty
		}
		next := cur.withKB(insights.BuildFromTables(cur.Tables, opts))
		if s.current.CompareAndSwap(cur, next) {
			return next, nil
		}
	}
}
