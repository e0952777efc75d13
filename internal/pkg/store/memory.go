package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FaultFunc 返回非 nil 时对应操作失败，用于测试故障隔离
type FaultFunc func(op string, col CollectionRef) error

// MemoryStore 进程内实现，语义与 Mongo 实现保持一致
type MemoryStore struct {
	mu    sync.Mutex
	now   Clock
	docs  map[CollectionRef]map[string]Fields
	fault FaultFunc
}

func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:  now,
		docs: make(map[CollectionRef]map[string]Fields),
	}
}

// FailWith 设置故障注入
func (s *MemoryStore) FailWith(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

func (s *MemoryStore) check(op string, col CollectionRef) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(op, col)
}

func (s *MemoryStore) Get(_ context.Context, ref DocRef) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("get", ref.Collection); err != nil {
		return nil, err
	}
	doc, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshotOf(ref, doc)
}

func (s *MemoryStore) Create(_ context.Context, col CollectionRef, fields Fields) (DocRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("create", col); err != nil {
		return DocRef{}, err
	}
	ref := col.Doc(uuid.NewString())
	s.put(ref, s.merge(Fields{}, fields))
	return ref, nil
}

func (s *MemoryStore) Set(_ context.Context, ref DocRef, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("set", ref.Collection); err != nil {
		return err
	}
	s.put(ref, s.merge(Fields{}, fields))
	return nil
}

func (s *MemoryStore) Update(_ context.Context, ref DocRef, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("update", ref.Collection); err != nil {
		return err
	}
	doc, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return ErrNotFound
	}
	s.merge(doc, fields)
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, ref DocRef, field string, delta int64) error {
	return s.Update(ctx, ref, Fields{field: Increment(delta)})
}

func (s *MemoryStore) UpdateWhere(_ context.Context, ref DocRef, cond []Filter, fields Fields) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("update", ref.Collection); err != nil {
		return false, err
	}
	doc, ok := s.docs[ref.Collection][ref.ID]
	if !ok || !matchAll(doc, cond) {
		return false, nil
	}
	s.merge(doc, fields)
	return true, nil
}

func (s *MemoryStore) Query(_ context.Context, col CollectionRef, filters ...Filter) ([]*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("query", col); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.docs[col]))
	for id, doc := range s.docs[col] {
		if matchAll(doc, filters) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	list := make([]*Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := snapshotOf(col.Doc(id), s.docs[col][id])
		if err != nil {
			return nil, err
		}
		list = append(list, snap)
	}
	return list, nil
}

func (s *MemoryStore) Count(_ context.Context, col CollectionRef, filters ...Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("count", col); err != nil {
		return 0, err
	}
	var n int64
	for _, doc := range s.docs[col] {
		if matchAll(doc, filters) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

// Len 返回集合中的文档数
func (s *MemoryStore) Len(col CollectionRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[col])
}

func (s *MemoryStore) put(ref DocRef, doc Fields) {
	col, ok := s.docs[ref.Collection]
	if !ok {
		col = make(map[string]Fields)
		s.docs[ref.Collection] = col
	}
	col[ref.ID] = doc
}

// merge 将 fields 合并进 doc，解析递增与服务端时间哨兵
func (s *MemoryStore) merge(doc Fields, fields Fields) Fields {
	for k, v := range fields {
		switch op := v.(type) {
		case IncrementOp:
			cur, _ := toFloat(doc[k])
			doc[k] = int64(cur) + op.Delta
		case ServerTimestampOp:
			doc[k] = s.now().UTC().Truncate(time.Millisecond)
		case time.Time:
			doc[k] = op.UTC().Truncate(time.Millisecond)
		case int:
			doc[k] = int64(op)
		case int32:
			doc[k] = int64(op)
		default:
			doc[k] = v
		}
	}
	return doc
}

type memoryBatch struct {
	store *MemoryStore
	ops   []func()
	refs  []DocRef
}

func (b *memoryBatch) Delete(ref DocRef) {
	b.refs = append(b.refs, ref)
	b.ops = append(b.ops, func() {
		delete(b.store.docs[ref.Collection], ref.ID)
	})
}

func (b *memoryBatch) SetMerge(ref DocRef, fields Fields) {
	b.refs = append(b.refs, ref)
	b.ops = append(b.ops, func() {
		doc, ok := b.store.docs[ref.Collection][ref.ID]
		if !ok {
			doc = Fields{}
			b.store.put(ref, doc)
		}
		b.store.merge(doc, fields)
	})
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

func (b *memoryBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, ref := range b.refs {
		if err := b.store.check("commit", ref.Collection); err != nil {
			return err
		}
	}
	for _, op := range b.ops {
		op()
	}
	return nil
}

func snapshotOf(ref DocRef, doc Fields) (*Snapshot, error) {
	m := make(bson.M, len(doc)+1)
	for k, v := range doc {
		m[k] = v
	}
	m["_id"] = ref.ID
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ref, err)
	}
	return NewSnapshot(ref, raw), nil
}

func matchAll(doc Fields, filters []Filter) bool {
	for _, f := range filters {
		if !match(doc, f) {
			return false
		}
	}
	return true
}

func match(doc Fields, f Filter) bool {
	v, ok := doc[f.Field]
	if !ok {
		// 与 Mongo 一致：$ne 匹配缺失字段
		return f.Op == OpNe
	}
	c, comparable := compare(v, f.Value)
	switch f.Op {
	case OpEq:
		return comparable && c == 0
	case OpNe:
		return !comparable || c != 0
	case OpLt:
		return comparable && c < 0
	case OpLte:
		return comparable && c <= 0
	case OpGt:
		return comparable && c > 0
	case OpGte:
		return comparable && c >= 0
	}
	return false
}

func compare(a, b any) (int, bool) {
	if ta, ok := toTime(a); ok {
		tb, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case va < vb:
			return -1, true
		case va > vb:
			return 1, true
		}
		return 0, true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if va == vb {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
