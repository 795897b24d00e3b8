package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // 容器内可能没有系统时区库

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm/logger"
)

// 数据源类型
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverCSV      = "csv"

	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// DefaultConfigPath 未指定 --config 时读取的配置文件
const DefaultConfigPath = "./config/config.yaml"

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`       // 服务器配置
	Log          LogConfig          `mapstructure:"log"`          // 日志配置
	Catalog      CatalogConfig      `mapstructure:"catalog"`      // GISource 库内数据源
	Verification VerificationConfig `mapstructure:"verification"` // 人工核验表数据源
	Reconcile    ReconcileConfig    `mapstructure:"reconcile"`    // 对齐规则
	Report       ReportConfig       `mapstructure:"report"`       // 报表窗口与统计
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // logrus 日志级别
	SQLLevel string `mapstructure:"sql_level"` // gorm 日志级别：silent/error/warn/info
}

// CatalogConfig GISource 库配置
type CatalogConfig struct {
	Driver          string        `mapstructure:"driver"`            // mysql/postgres/csv
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	Path            string        `mapstructure:"path"`              // driver=csv 时的导出文件
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`    // 慢查询阈值
}

// VerificationConfig 核验表配置
type VerificationConfig struct {
	Type              string `mapstructure:"type"`                // sheets/csv
	BaseURL           string `mapstructure:"base_url"`            // Sheets API基础地址
	SpreadsheetID     string `mapstructure:"spreadsheet_id"`      // 表格ID
	Range             string `mapstructure:"range"`               // 读取范围，默认 Filled 整张表
	ValueRenderOption string `mapstructure:"value_render_option"` // FORMATTED_VALUE/UNFORMATTED_VALUE
	APIKey            string `mapstructure:"api_key"`             // 公开表格可用 API Key
	CredentialsFile   string `mapstructure:"credentials_file"`    // 服务账号凭据，为空则走默认凭据链
	Timeout           int    `mapstructure:"timeout"`             // 请求超时（秒）
	RetryCount        int    `mapstructure:"retry_count"`         // 重试次数
	Proxy             string `mapstructure:"proxy"`               // 代理地址
	Path              string `mapstructure:"path"`                // type=csv 时的导出文件
}

// ReconcileConfig 对齐规则配置
type ReconcileConfig struct {
	AutomatedMarker string `mapstructure:"automated_marker"`  // 自动录入标记，默认 LLM
	RejectEmptyKeys bool   `mapstructure:"reject_empty_keys"` // 是否拒绝空复合键 "_"
}

// ReportConfig 报表配置
type ReportConfig struct {
	Timezone     string `mapstructure:"timezone"`      // 计算“今天”使用的时区
	DefaultDays  int    `mapstructure:"default_days"`  // 默认统计窗口（天）
	RecentDays   int    `mapstructure:"recent_days"`   // 概览中“近期新增”的天数
	TopCountries int    `mapstructure:"top_countries"` // 国家分布取前 N
}

// LoadConfig 加载配置文件（默认 config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	if path == "" {
		path = DefaultConfigPath
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.sql_level", "warn")
	v.SetDefault("catalog.driver", DriverMySQL)
	v.SetDefault("catalog.max_open_conns", 10)
	v.SetDefault("catalog.max_idle_conns", 5)
	v.SetDefault("catalog.conn_max_lifetime", time.Hour)
	v.SetDefault("catalog.slow_threshold", 2*time.Second)
	v.SetDefault("verification.type", SourceSheets)
	v.SetDefault("verification.base_url", "https://sheets.googleapis.com")
	v.SetDefault("verification.range", "Filled")
	v.SetDefault("verification.value_render_option", "UNFORMATTED_VALUE")
	v.SetDefault("verification.timeout", 30)
	v.SetDefault("verification.retry_count", 3)
	v.SetDefault("reconcile.automated_marker", "LLM")
	v.SetDefault("reconcile.reject_empty_keys", false)
	v.SetDefault("report.timezone", "Asia/Shanghai")
	v.SetDefault("report.default_days", 30)
	v.SetDefault("report.recent_days", 7)
	v.SetDefault("report.top_countries", 10)
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("CATALOG_DSN"); v != "" {
		cfg.Catalog.DSN = v
	}
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Verification.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_API_KEY"); v != "" {
		cfg.Verification.APIKey = v
	}
	if v := os.Getenv("SHEETS_CREDENTIALS_FILE"); v != "" {
		cfg.Verification.CredentialsFile = v
	}
	if v := os.Getenv("SHEETS_PROXY"); v != "" {
		cfg.Verification.Proxy = v
	}
}

// Validate 校验数据源类型与必填项
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Catalog.Driver) {
	case DriverMySQL, DriverPostgres:
		if c.Catalog.DSN == "" {
			errs = append(errs, fmt.Errorf("catalog.dsn 不能为空（driver=%s）", c.Catalog.Driver))
		}
	case DriverCSV:
		if c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.path 不能为空（driver=csv）"))
		}
	default:
		errs = append(errs, fmt.Errorf("不支持的 catalog.driver: %q", c.Catalog.Driver))
	}

	switch strings.ToLower(c.Verification.Type) {
	case SourceSheets:
		if c.Verification.SpreadsheetID == "" {
			errs = append(errs, errors.New("verification.spreadsheet_id 不能为空（type=sheets）"))
		}
		if c.Verification.BaseURL == "" {
			errs = append(errs, errors.New("verification.base_url 不能为空"))
		}
	case SourceCSV:
		if c.Verification.Path == "" {
			errs = append(errs, errors.New("verification.path 不能为空（type=csv）"))
		}
	default:
		errs = append(errs, fmt.Errorf("不支持的 verification.type: %q", c.Verification.Type))
	}

	if c.Report.Timezone != "" {
		if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("report.timezone 无效: %w", err))
		}
	}
	if c.Report.DefaultDays <= 0 {
		errs = append(errs, errors.New("report.default_days 必须大于 0"))
	}
	return errors.Join(errs...)
}

// Location 报表时区，未配置时使用 UTC
func (r *ReportConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetGORMLogLevel 把 log.sql_level 转为 gorm 日志级别
func (l *LogConfig) GetGORMLogLevel() logger.LogLevel {
	switch strings.ToLower(l.SQLLevel) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
