// Package store 是文档数据库的抽象层。
//
// 集合可以挂在某个父文档下 (子集合)，写入使用 Fields 做字段级合并，
// 计数器一律通过 IncrementOp 交给存储端原子递增，不做先读后写。
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound = errors.New("document not found")
)

// CollectionRef 指向一个集合，Parent 非空时表示该集合是 Parent 文档下的子集合
type CollectionRef struct {
	Name   string
	Parent string
}

func Collection(name string) CollectionRef {
	return CollectionRef{Name: name}
}

func SubCollection(name, parentID string) CollectionRef {
	return CollectionRef{Name: name, Parent: parentID}
}

func (c CollectionRef) Doc(id string) DocRef {
	return DocRef{Collection: c, ID: id}
}

func (c CollectionRef) String() string {
	if c.Parent == "" {
		return c.Name
	}
	return c.Parent + "/" + c.Name
}

type DocRef struct {
	Collection CollectionRef
	ID         string
}

func (r DocRef) String() string {
	return r.Collection.String() + "/" + r.ID
}

// Fields 部分文档，写入时按字段合并
type Fields map[string]any

// IncrementOp 原子递增哨兵值
type IncrementOp struct {
	Delta int64
}

// ServerTimestampOp 写入时由存储端填充当前时间
type ServerTimestampOp struct{}

var ServerTimestamp = ServerTimestampOp{}

func Increment(delta int64) IncrementOp {
	return IncrementOp{Delta: delta}
}

type Operator string

const (
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

type Filter struct {
	Field string
	Op    Operator
	Value any
}

func Eq(field string, v any) Filter  { return Filter{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Filter  { return Filter{Field: field, Op: OpNe, Value: v} }
func Lt(field string, v any) Filter  { return Filter{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v any) Filter { return Filter{Field: field, Op: OpLte, Value: v} }
func Gt(field string, v any) Filter  { return Filter{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v any) Filter { return Filter{Field: field, Op: OpGte, Value: v} }

// Snapshot 一次读取得到的文档快照
type Snapshot struct {
	Ref DocRef
	raw bson.Raw
}

func NewSnapshot(ref DocRef, raw bson.Raw) *Snapshot {
	return &Snapshot{Ref: ref, raw: raw}
}

func (s *Snapshot) DataTo(v any) error {
	return bson.Unmarshal(s.raw, v)
}

// Store 文档数据库客户端
type Store interface {
	Get(ctx context.Context, ref DocRef) (*Snapshot, error)
	Create(ctx context.Context, col CollectionRef, fields Fields) (DocRef, error)
	Set(ctx context.Context, ref DocRef, fields Fields) error
	Update(ctx context.Context, ref DocRef, fields Fields) error
	Increment(ctx context.Context, ref DocRef, field string, delta int64) error
	UpdateWhere(ctx context.Context, ref DocRef, cond []Filter, fields Fields) (bool, error)
	Query(ctx context.Context, col CollectionRef, filters ...Filter) ([]*Snapshot, error)
	Count(ctx context.Context, col CollectionRef, filters ...Filter) (int64, error)
	Batch() Batch
}

// Batch 一组在一次提交中原子生效的写操作
type Batch interface {
	Delete(ref DocRef)
	SetMerge(ref DocRef, fields Fields)
	Len() int
	Commit(ctx context.Context) error
}

// GetAs 读取文档并解码为 T
func GetAs[T any](ctx context.Context, s Store, ref DocRef) (*T, error) {
	snap, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	var v T
	if err = snap.DataTo(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// QueryAs 查询并解码为 T 列表
func QueryAs[T any](ctx context.Context, s Store, col CollectionRef, filters ...Filter) ([]*T, error) {
	snaps, err := s.Query(ctx, col, filters...)
	if err != nil {
		return nil, err
	}
	list := make([]*T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err = snap.DataTo(&v); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, nil
}

// Clock 可替换的时间源，测试中固定时间
type Clock func() time.Time
