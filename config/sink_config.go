package config

type SinkType string

const (
	SinkTypeConnector  SinkType = "connector"
	SinkTypeConsole    SinkType = "console"
	SinkTypeFileSystem SinkType = "file_system"
	SinkTypeRedis      SinkType = "redis"
	SinkTypeBucket     SinkType = "bucket"
	SinkTypePostgres   SinkType = "postgres"
	SinkTypeParquet    SinkType = "parquet"
)

type ConsoleSinkLevel string

const (
	ConsoleSinkLevelDebug   ConsoleSinkLevel = "debug"
	ConsoleSinkLevelInfo    ConsoleSinkLevel = "info"
	ConsoleSinkLevelWarning ConsoleSinkLevel = "warning"
	ConsoleSinkLevelError   ConsoleSinkLevel = "error"
)

type BucketSinkConfig struct {
	BucketName      string `yaml:"bucket_name"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type ConsoleSinkConfig struct {
	Level ConsoleSinkLevel `yaml:"level"`
}

type FileSystemSinkConfig struct {
	Path string `yaml:"path"`
}

type RedisSinkConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
	List     string `yaml:"list"`
}

type PostgresSinkConfig struct {
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
}

type ParquetSinkConfig struct {
	Path string `yaml:"path"`
}

type SinkConfig struct {
	ID   ID       `yaml:"id"`
	Type SinkType `yaml:"type"`
	// Destinations
	// Console
	Console ConsoleSinkConfig `yaml:"console"`
	// Object Storage
	Bucket BucketSinkConfig `yaml:"bucket"`
	// File System
	FileSystem FileSystemSinkConfig `yaml:"file_system"`
	// Redis
	Redis RedisSinkConfig `yaml:"redis"`
	// Postgres
	Postgres PostgresSinkConfig `yaml:"postgres"`
	// Parquet archive
	Parquet ParquetSinkConfig `yaml:"parquet"`
	// Connector Channel
	Connector ConnectorConfig `yaml:"connector"`
}
