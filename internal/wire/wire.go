package wire

import (
	"Ripple/internal/api"
	"Ripple/internal/api/config"
	"Ripple/internal/api/handler"
	"Ripple/internal/fanout"
	"Ripple/internal/job"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/cron"
	"Ripple/internal/pkg/firebase"
	"Ripple/internal/pkg/kafka"
	mongoStore "Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/push"
	redisPkg "Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *mongo.Database, rdb *redis.Client, fb *firebase.App, cfg *config.Config) (*ApplicationContainer, error) {
	st := mongoStore.NewStore(db)

	userRepo := repository.NewUserRepo(st)
	postRepo := repository.NewPostRepo(st)
	postActionRepo := repository.NewPostActionRepo(st)
	tagRepo := repository.NewTagRepo(st)
	reportRepo := repository.NewReportRepo(st)
	statsRepo := repository.NewStatsRepo(st)
	notificationRepo := repository.NewNotificationRepo(st)

	gateway := push.NewBreakerGateway(
		push.NewFCMGateway(fb.Messaging, time.Duration(cfg.Push.SendTimeout)*time.Second),
		push.BreakerConfig{
			Name:             "fcm",
			FailureThreshold: cfg.Push.BreakerFailures,
			Timeout:          time.Duration(cfg.Push.BreakerTimeout) * time.Second,
		},
	)

	notifier := service.NewNotifier(notificationRepo, gateway)
	moderator := service.NewModerator(reportRepo, userRepo, notifier)
	analyticsService := service.NewAnalyticsService(userRepo, postRepo, statsRepo, nil)

	// 触发器
	dispatcher := trigger.NewDispatcher(redisPkg.NewDeliveryGuard(rdb, consts.DeliveryGuardTTL))
	fanout.NewHandlers(userRepo, postRepo, postActionRepo, tagRepo, notifier, moderator).Register(dispatcher)

	kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, dispatcher)
	if err != nil {
		return nil, err
	}

	// 定时任务
	cleanupJob := job.NewNotificationCleanupJob(
		userRepo,
		notificationRepo,
		redisPkg.NewLocker(rdb),
		cfg.Sweeper.RetentionDays,
		cfg.Sweeper.Workers,
		nil,
	)
	cronMgr, err := cron.NewCronManager(cfg.Cron, cleanupJob)
	if err != nil {
		return nil, err
	}

	handlers := &api.HandlersGroup{
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService),
	}
	router := api.SetupRouter(handlers, fb.Auth, cfg.Logstash)

	return &ApplicationContainer{
		Router:       router,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
