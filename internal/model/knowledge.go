package model

import (
	"encoding/json"
	"sort"
)

// KnowledgeBase 聚合知识库：固定 key -> 整数 或 标签计数表
// 只允许通过 SetTotal / SetCounts 写入，保证不会混入原始行数据
type KnowledgeBase struct {
	values map[string]any
}

// NewKnowledgeBase 创建空知识库
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{values: make(map[string]any)}
}

// SetTotal 写入整数指标
func (kb *KnowledgeBase) SetTotal(key string, n int) {
	kb.values[key] = n
}

// SetCounts 写入标签计数表（复制一份）
func (kb *KnowledgeBase) SetCounts(key string, counts map[string]int) {
	cp := make(map[string]int, len(counts))
	for k, v := range counts {
		cp[k] = v
	}
	kb.values[key] = cp
}

// Get 取值，类型为 int 或 map[string]int
func (kb *KnowledgeBase) Get(key string) (any, bool) {
	if kb == nil {
		return nil, false
	}
	v, ok := kb.values[key]
	return v, ok
}

// Int 取整数指标
func (kb *KnowledgeBase) Int(key string) (int, bool) {
	v, ok := kb.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// Counts 取标签计数表
func (kb *KnowledgeBase) Counts(key string) (map[string]int, bool) {
	v, ok := kb.Get(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]int)
	return m, ok
}

// Has 是否存在 key
func (kb *KnowledgeBase) Has(key string) bool {
	_, ok := kb.Get(key)
	return ok
}

// Len key 数量
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.values)
}

// Keys 排序后的全部 key
func (kb *KnowledgeBase) Keys() []string {
	if kb == nil {
		return []string{}
	}
	keys := make([]string, 0, len(kb.values))
	for k := range kb.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All 返回浅拷贝的完整映射
func (kb *KnowledgeBase) All() map[string]any {
	out := make(map[string]any)
	if kb == nil {
		return out
	}
	for k, v := range kb.values {
		out[k] = v
	}
	return out
}

// MarshalJSON 按 map 序列化
func (kb *KnowledgeBase) MarshalJSON() ([]byte, error) {
	return json.Marshal(kb.All())
}
