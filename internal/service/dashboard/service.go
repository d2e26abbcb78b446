package dashboard

import (
	"errors"

	"vehs/internal/model"
	"vehs/internal/parser"
	"vehs/internal/service/store"
)

// ErrNoData 尚未上传工作簿
var ErrNoData = errors.New("no data processed")

// Service 图表与统计服务：所有计算都基于调用时的当前快照
type Service struct {
	store *store.MemoryStore
}

// NewService 创建图表服务
func NewService(s *store.MemoryStore) *Service {
	return &Service{store: s}
}

// view 单次请求使用的快照视图，保证一次请求内数据一致
type view struct {
	snap *store.Snapshot
}

func (s *Service) current() (*view, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNoData
	}
	return &view{snap: snap}, nil
}

// table 某类型规范化表，未匹配返回 nil
func (v *view) table(t model.RecordType) *model.CanonicalTable {
	return v.snap.Table(t)
}

// field 某类型某字段的值列；未匹配的类型返回空
func (v *view) field(t model.RecordType, f model.Field) []string {
	return v.table(t).Field(f)
}

// fields 多个类型同一字段拼接
func (v *view) fields(f model.Field, types ...model.RecordType) []string {
	var out []string
	for _, t := range types {
		out = append(out, v.field(t, f)...)
	}
	return out
}

// dates 某类型有效日期（发现项按标题映射父记录日期）
func (v *view) dates(t model.RecordType) []model.DateValue {
	ct := v.table(t)
	if ct == nil {
		return nil
	}
	return parser.EffectiveDates(ct, v.snap.Tables)
}

// Summary 当前数据概况
type Summary struct {
	Loaded     bool                     `json:"loaded"`
	UploadID   string                   `json:"upload_id,omitempty"`
	Filename   string                   `json:"filename,omitempty"`
	LoadedAt   string                   `json:"loaded_at,omitempty"`
	KBBuiltAt  string                   `json:"kb_built_at,omitempty"`
	Rows       map[model.RecordType]int `json:"rows,omitempty"`
	Resolution *model.ResolveResult     `json:"resolution,omitempty"`
	KBKeys     int                      `json:"kb_keys"`
}

// Summary 返回当前状态；未上传时 Loaded=false，不返回错误
func (s *Service) Summary() Summary {
	snap := s.store.Current()
	if snap == nil {
		return Summary{}
	}
	rows := make(map[model.RecordType]int, len(model.AllRecordTypes))
	for _, t := range model.AllRecordTypes {
		rows[t] = snap.Rows(t)
	}
	res := snap.Resolution
	return Summary{
		Loaded:     true,
		UploadID:   snap.ID,
		Filename:   snap.Filename,
		LoadedAt:   snap.LoadedAt.Format("2006-01-02 15:04:05"),
		KBBuiltAt:  snap.KBBuiltAt.Format("2006-01-02 15:04:05"),
		Rows:       rows,
		Resolution: &res,
		KBKeys:     snap.KB.Len(),
	}
}

// KnowledgeBase 当前知识库
func (s *Service) KnowledgeBase() (*model.KnowledgeBase, error) {
	v, err := s.current()
	if err != nil {
		return nil, err
	}
	return v.snap.KB, nil
}
