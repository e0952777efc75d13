package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Push     PushConfig     `mapstructure:"push"`
	Cron     CronConfig     `mapstructure:"cron"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MongoConfig 文档数据库配置
type MongoConfig struct {
	URL      string `mapstructure:"url" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers" validate:"required,min=1"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	GroupID           string   `mapstructure:"group_id" validate:"required"`
	Topics            []string `mapstructure:"topics" validate:"required,min=1"`
	SessionTimeout    int      `mapstructure:"session_timeout"`
	HeartbeatInterval int      `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int      `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int      `mapstructure:"max_processing_time"`
	InitialOffset     string   `mapstructure:"initial_offset" validate:"omitempty,oneof=oldest newest"`
}

// FirebaseConfig FCM 推送与 ID Token 校验
type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file" validate:"required"`
	ProjectID       string `mapstructure:"project_id"`
}

// PushConfig 推送熔断配置
type PushConfig struct {
	BreakerFailures uint32 `mapstructure:"breaker_failures"`
	BreakerTimeout  int    `mapstructure:"breaker_timeout"` // 秒
	SendTimeout     int    `mapstructure:"send_timeout"`    // 秒
}

type CronConfig struct {
	NotificationCleanup string `mapstructure:"notification_cleanup"`
	Timezone            string `mapstructure:"timezone"`
}

type SweeperConfig struct {
	Workers       int `mapstructure:"workers" validate:"min=1"`
	RetentionDays int `mapstructure:"retention_days" validate:"min=1"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
