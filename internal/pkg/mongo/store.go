package mongo

import (
	"Ripple/internal/pkg/store"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parentField 子集合文档所属父文档 ID
const parentField = "_parent"

// Store 基于 MongoDB 的 store.Store 实现
// 子集合与父集合同名存放在 Name 对应的 collection 中，用 _parent 区分归属
type Store struct {
	db  *mongo.Database
	now store.Clock
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

func (s *Store) coll(c store.CollectionRef) *mongo.Collection {
	return s.db.Collection(c.Name)
}

func scoped(c store.CollectionRef, filter bson.M) bson.M {
	if c.Parent != "" {
		filter[parentField] = c.Parent
	}
	return filter
}

func idFilter(ref store.DocRef) bson.M {
	return scoped(ref.Collection, bson.M{"_id": ref.ID})
}

func (s *Store) Get(ctx context.Context, ref store.DocRef) (*store.Snapshot, error) {
	raw, err := s.coll(ref.Collection).FindOne(ctx, idFilter(ref)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrapf(err, "mongo get %s", ref)
	}
	return store.NewSnapshot(ref, raw), nil
}

func (s *Store) Create(ctx context.Context, col store.CollectionRef, fields store.Fields) (store.DocRef, error) {
	ref := col.Doc(uuid.NewString())
	doc := s.document(fields)
	doc["_id"] = ref.ID
	if col.Parent != "" {
		doc[parentField] = col.Parent
	}
	if _, err := s.coll(col).InsertOne(ctx, doc); err != nil {
		return store.DocRef{}, errors.Wrapf(err, "mongo create in %s", col)
	}
	return ref, nil
}

func (s *Store) Set(ctx context.Context, ref store.DocRef, fields store.Fields) error {
	doc := s.document(fields)
	doc["_id"] = ref.ID
	if ref.Collection.Parent != "" {
		doc[parentField] = ref.Collection.Parent
	}
	_, err := s.coll(ref.Collection).ReplaceOne(ctx, idFilter(ref), doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "mongo set %s", ref)
}

func (s *Store) Update(ctx context.Context, ref store.DocRef, fields store.Fields) error {
	res, err := s.coll(ref.Collection).UpdateOne(ctx, idFilter(ref), updateDoc(fields))
	if err != nil {
		return errors.Wrapf(err, "mongo update %s", ref)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, ref store.DocRef, field string, delta int64) error {
	return s.Update(ctx, ref, store.Fields{field: store.Increment(delta)})
}

func (s *Store) UpdateWhere(ctx context.Context, ref store.DocRef, cond []store.Filter, fields store.Fields) (bool, error) {
	filter := idFilter(ref)
	for k, v := range filterDoc(cond) {
		filter[k] = v
	}
	res, err := s.coll(ref.Collection).UpdateOne(ctx, filter, updateDoc(fields))
	if err != nil {
		return false, errors.Wrapf(err, "mongo conditional update %s", ref)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) Query(ctx context.Context, col store.CollectionRef, filters ...store.Filter) ([]*store.Snapshot, error) {
	cursor, err := s.coll(col).Find(ctx, scoped(col, filterDoc(filters)))
	if err != nil {
		return nil, errors.Wrapf(err, "mongo query %s", col)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*store.Snapshot
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		id, _ := raw.Lookup("_id").StringValueOK()
		list = append(list, store.NewSnapshot(col.Doc(id), raw))
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrapf(err, "mongo query %s", col)
	}
	return list, nil
}

func (s *Store) Count(ctx context.Context, col store.CollectionRef, filters ...store.Filter) (int64, error) {
	n, err := s.coll(col).CountDocuments(ctx, scoped(col, filterDoc(filters)))
	if err != nil {
		return 0, errors.Wrapf(err, "mongo count %s", col)
	}
	return n, nil
}

func (s *Store) Batch() store.Batch {
	return &batch{store: s, writes: make(map[string][]mongo.WriteModel)}
}

// document 将 Fields 转为插入用文档，哨兵值在客户端解析
func (s *Store) document(fields store.Fields) bson.M {
	doc := make(bson.M, len(fields)+2)
	for k, v := range fields {
		switch op := v.(type) {
		case store.IncrementOp:
			doc[k] = op.Delta
		case store.ServerTimestampOp:
			doc[k] = s.now()
		default:
			doc[k] = v
		}
	}
	return doc
}

// updateDoc 拆分为 $set / $inc / $currentDate
func updateDoc(fields store.Fields) bson.M {
	set, inc, current := bson.M{}, bson.M{}, bson.M{}
	for k, v := range fields {
		switch op := v.(type) {
		case store.IncrementOp:
			inc[k] = op.Delta
		case store.ServerTimestampOp:
			current[k] = bson.M{"$type": "date"}
		default:
			set[k] = v
		}
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(current) > 0 {
		update["$currentDate"] = current
	}
	return update
}

var operators = map[store.Operator]string{
	store.OpEq:  "$eq",
	store.OpNe:  "$ne",
	store.OpLt:  "$lt",
	store.OpLte: "$lte",
	store.OpGt:  "$gt",
	store.OpGte: "$gte",
}

func filterDoc(filters []store.Filter) bson.M {
	filter := bson.M{}
	for _, f := range filters {
		cond, ok := filter[f.Field].(bson.M)
		if !ok {
			cond = bson.M{}
			filter[f.Field] = cond
		}
		cond[operators[f.Op]] = f.Value
	}
	return filter
}

type batch struct {
	store  *Store
	order  []string
	writes map[string][]mongo.WriteModel
	n      int
}

func (b *batch) add(col store.CollectionRef, model mongo.WriteModel) {
	if _, ok := b.writes[col.Name]; !ok {
		b.order = append(b.order, col.Name)
	}
	b.writes[col.Name] = append(b.writes[col.Name], model)
	b.n++
}

func (b *batch) Delete(ref store.DocRef) {
	b.add(ref.Collection, mongo.NewDeleteOneModel().SetFilter(idFilter(ref)))
}

func (b *batch) SetMerge(ref store.DocRef, fields store.Fields) {
	b.add(ref.Collection, mongo.NewUpdateOneModel().
		SetFilter(idFilter(ref)).
		SetUpdate(updateDoc(fields)).
		SetUpsert(true))
}

func (b *batch) Len() int {
	return b.n
}

// Commit 在一个事务内提交全部写入
func (b *batch) Commit(ctx context.Context) error {
	if b.n == 0 {
		return nil
	}
	session, err := b.store.db.Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "mongo start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, name := range b.order {
			opts := options.BulkWrite().SetOrdered(true)
			if _, err := b.store.db.Collection(name).BulkWrite(sc, b.writes[name], opts); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return errors.Wrap(err, "mongo batch commit")
}
