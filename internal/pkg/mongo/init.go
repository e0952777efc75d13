package mongo

import (
	"Ripple/internal/api/config"
	"Ripple/internal/model"
	"Ripple/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const slowMongoCommand = 200 * time.Millisecond

// InitMongo 建立连接并返回 Database 引用，同时初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor(slowMongoCommand)),
	)
	if err != nil {
		return nil, err
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)

	if err = EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// EnsureIndexes 为触发器用到的等值与范围查询建立索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		model.Like{}.CollectionName(): {
			{Keys: bson.D{{Key: "postId", Value: 1}}},
		},
		model.Comment{}.CollectionName(): {
			{Keys: bson.D{{Key: "postId", Value: 1}}},
		},
		model.User{}.CollectionName(): {
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		model.Post{}.CollectionName(): {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		model.Report{}.CollectionName(): {
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		model.Notification{}.CollectionName(): {
			{Keys: bson.D{{Key: parentField, Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			log.Error("failed to create mongo indexes", "collection", name, "err", err)
			return err
		}
	}
	return nil
}
