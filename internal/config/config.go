package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"seedforge_backend/internal/gamification"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Tracing      TracingConfig `mapstructure:"tracing"`
	Redis        RedisConfig
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Gamification GamificationConfig `mapstructure:"gamification"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LevelBandConfig 等级区间的升级成本，up_to_level 为 0 表示开放区间
type LevelBandConfig struct {
	UpToLevel  int `mapstructure:"up_to_level"`
	GpPerLevel int `mapstructure:"gp_per_level"`
}

// TitleBandConfig 等级区间对应的称号
type TitleBandConfig struct {
	UpToLevel int    `mapstructure:"up_to_level"`
	Title     string `mapstructure:"title"`
}

// DomainConfig 植物领域的关键词表
type DomainConfig struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// GamificationConfig 奖励引擎的规则表。等级曲线历史上存在过两套不兼容的方案，
// 所以必须由配置决定，代码不做兜底猜测。配置缺失或非法在启动时直接失败
type GamificationConfig struct {
	LevelBands []LevelBandConfig `mapstructure:"level_bands"`
	TitleBands []TitleBandConfig `mapstructure:"title_bands"`

	StreakBonusPerDay  float64 `mapstructure:"streak_bonus_per_day"`
	StreakBonusCap     float64 `mapstructure:"streak_bonus_cap"`
	FirstAttemptBonus  int     `mapstructure:"first_attempt_bonus"`
	DailyActivityBonus int     `mapstructure:"daily_activity_bonus"`

	CompletionBonusRate float64 `mapstructure:"completion_bonus_rate"`
	CompletionBonusMin  int     `mapstructure:"completion_bonus_min"`
	CompletionBonusMax  int     `mapstructure:"completion_bonus_max"`

	GpPerSeed int `mapstructure:"gp_per_seed"`

	FlowerMaxMinutes int `mapstructure:"flower_max_minutes"`
	BushMaxMinutes   int `mapstructure:"bush_max_minutes"`

	DefaultDomain string         `mapstructure:"default_domain"`
	Domains       []DomainConfig `mapstructure:"domains"`
}

// EngineRules 把配置表转换成引擎规则
func (g GamificationConfig) EngineRules() gamification.Rules {
	rules := gamification.Rules{
		StreakBonusPerDay:   g.StreakBonusPerDay,
		StreakBonusCap:      g.StreakBonusCap,
		FirstAttemptBonus:   g.FirstAttemptBonus,
		DailyActivityBonus:  g.DailyActivityBonus,
		CompletionBonusRate: g.CompletionBonusRate,
		CompletionBonusMin:  g.CompletionBonusMin,
		CompletionBonusMax:  g.CompletionBonusMax,
		GpPerSeed:           g.GpPerSeed,
		FlowerMaxMinutes:    g.FlowerMaxMinutes,
		BushMaxMinutes:      g.BushMaxMinutes,
		DefaultDomain:       g.DefaultDomain,
	}
	for _, b := range g.LevelBands {
		rules.LevelBands = append(rules.LevelBands, gamification.LevelBand{
			UpToLevel:  b.UpToLevel,
			GpPerLevel: b.GpPerLevel,
		})
	}
	for _, b := range g.TitleBands {
		rules.TitleBands = append(rules.TitleBands, gamification.TitleBand{
			UpToLevel: b.UpToLevel,
			Title:     b.Title,
		})
	}
	for _, d := range g.Domains {
		rules.Domains = append(rules.Domains, gamification.DomainKeywords{
			Domain:   d.Name,
			Keywords: d.Keywords,
		})
	}
	return rules
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SEEDFORGE")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	// 规则表启动时校验，不合法直接拒绝启动
	if err := cfg.Gamification.EngineRules().Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
