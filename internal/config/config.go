// Package config 负责加载、校验数据集生成所需的全部配置。
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个生成器的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Organization OrganizationConfig `mapstructure:"organization"`
	Volumes      VolumeConfig       `mapstructure:"volumes"`
	Temporal     TemporalConfig     `mapstructure:"temporal"`
	Output       OutputConfig       `mapstructure:"output"`
	Seed         int64              `mapstructure:"seed"`
	DemoPersonas []PersonaConfig    `mapstructure:"demo_personas"`
	Log          LogConfig          `mapstructure:"log"`
	Sinks        SinkConfig         `mapstructure:"sinks"`
}

// OrganizationConfig 描述要合成的组织结构。
type OrganizationConfig struct {
	CompanyName   string   `mapstructure:"company_name"`
	EmployeeCount int      `mapstructure:"employee_count"`
	Teams         []string `mapstructure:"teams"`
	ManagerCount  int      `mapstructure:"manager_count"`
}

// VolumeConfig 描述各类实体的生成目标数量。
type VolumeConfig struct {
	Documents           int `mapstructure:"documents"`
	ChatThreads         int `mapstructure:"chat_threads"`
	Meetings            int `mapstructure:"meetings"`
	WeeklyBriefs        int `mapstructure:"weekly_briefs"`
	KnowledgeGraphEdges int `mapstructure:"knowledge_graph_edges"`
	Topics              int `mapstructure:"topics"`
	UserEvents          int `mapstructure:"user_events"`
}

// TemporalConfig 描述生成数据覆盖的时间窗口（ISO 日期，含头不含尾无要求）。
type TemporalConfig struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
}

// OutputConfig 描述输出目录与校验开关。
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	Validation bool   `mapstructure:"validation"`
	Manifest   bool   `mapstructure:"manifest"`
}

// PersonaConfig 定义固定的演示人物，组织生成器保证他们一定存在。
type PersonaConfig struct {
	Name string `mapstructure:"name"`
	Role string `mapstructure:"role"`
	Team string `mapstructure:"team"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SinkConfig 汇总所有可选的下游输出端。
type SinkConfig struct {
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	MySQL         MySQLConfig         `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

// ElasticsearchConfig 存储文档检索端的配置。
type ElasticsearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// KafkaConfig 存储用户事件流输出端的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MinIOConfig 存储数据集归档对象存储的配置。
type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// MySQLConfig 存储生成运行台账数据库的配置。
type MySQLConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// RedisConfig 存储 ACL 缓存的配置。
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// dateLayout 是配置中日期字段的格式。
const dateLayout = "2006-01-02"

// Init 从指定路径读取 YAML 文件并解析到 Conf 变量中，随后做一次完整校验。
func Init(configPath string) error {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := viper.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return Conf.Validate()
}

// setDefaults 注册与原始数据集对齐的默认值。
func setDefaults() {
	viper.SetDefault("organization.company_name", "TechNova Inc")
	viper.SetDefault("organization.employee_count", 25)
	viper.SetDefault("organization.teams", []string{"Marketing", "Product", "Engineering", "Finance", "HR"})
	viper.SetDefault("organization.manager_count", 3)
	viper.SetDefault("volumes.documents", 160)
	viper.SetDefault("volumes.chat_threads", 220)
	viper.SetDefault("volumes.meetings", 30)
	viper.SetDefault("volumes.weekly_briefs", 17)
	viper.SetDefault("volumes.knowledge_graph_edges", 2500)
	viper.SetDefault("volumes.topics", 60)
	viper.SetDefault("volumes.user_events", 80)
	viper.SetDefault("temporal.start_date", "2024-01-01")
	viper.SetDefault("temporal.end_date", "2025-10-24")
	viper.SetDefault("output.dir", "technova_dataset")
	viper.SetDefault("output.validation", true)
	viper.SetDefault("output.manifest", true)
	viper.SetDefault("seed", 42)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

// Default 返回一份带默认值的配置，主要用于测试。
func Default() Config {
	return Config{
		Organization: OrganizationConfig{
			CompanyName:   "TechNova Inc",
			EmployeeCount: 25,
			Teams:         []string{"Marketing", "Product", "Engineering", "Finance", "HR"},
			ManagerCount:  3,
		},
		Volumes: VolumeConfig{
			Documents:           160,
			ChatThreads:         220,
			Meetings:            30,
			WeeklyBriefs:        17,
			KnowledgeGraphEdges: 2500,
			Topics:              60,
			UserEvents:          80,
		},
		Temporal: TemporalConfig{
			StartDate: "2024-01-01",
			EndDate:   "2025-10-24",
		},
		Output: OutputConfig{
			Dir:        "technova_dataset",
			Validation: true,
			Manifest:   true,
		},
		Seed: 42,
		DemoPersonas: []PersonaConfig{
			{Name: "Maya Chen", Role: "Product Manager", Team: "Product"},
			{Name: "Rahul Sharma", Role: "Marketing Analyst", Team: "Marketing"},
			{Name: "Priya Patel", Role: "New Hire", Team: "Product"},
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Validate 在任何生成器运行之前拒绝非法配置。
func (c *Config) Validate() error {
	if c.Organization.EmployeeCount < 1 {
		return errors.New("employee_count 必须至少为 1")
	}
	if len(c.Organization.Teams) == 0 {
		return errors.New("至少需要配置一个团队")
	}
	if c.Organization.ManagerCount < 1 || c.Organization.ManagerCount > c.Organization.EmployeeCount {
		return errors.New("manager_count 必须在 1 与 employee_count 之间")
	}
	if c.Volumes.Documents < 1 {
		return errors.New("documents 数量必须至少为 1")
	}
	if c.Volumes.ChatThreads < 0 || c.Volumes.KnowledgeGraphEdges < 0 || c.Volumes.Meetings < 0 {
		return errors.New("生成数量不能为负数")
	}
	start, err := c.StartTime()
	if err != nil {
		return fmt.Errorf("start_date 格式非法: %w", err)
	}
	end, err := c.EndTime()
	if err != nil {
		return fmt.Errorf("end_date 格式非法: %w", err)
	}
	if !start.Before(end) {
		return errors.New("start_date 必须早于 end_date")
	}
	return nil
}

// StartTime 解析时间窗口起点。
func (c *Config) StartTime() (time.Time, error) {
	return time.Parse(dateLayout, c.Temporal.StartDate)
}

// EndTime 解析时间窗口终点。
func (c *Config) EndTime() (time.Time, error) {
	return time.Parse(dateLayout, c.Temporal.EndDate)
}
