package settings

import "github.com/huynhanx03/go-esbulk/pkg/sink"

type Config struct {
	Server        Server        `mapstructure:"server"`
	Logger        Logger        `mapstructure:"logger"`
	Kafka         Kafka         `mapstructure:"kafka"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Sink          sink.Config   `mapstructure:"sink" validate:"-"`
}

// Server is the configuration for the admin server
type Server struct {
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	Addr string `mapstructure:"addr"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"`
	Compress    bool   `mapstructure:"compress"`
}

// Kafka is the configuration for the Kafka record source
type Kafka struct {
	Brokers       []string `mapstructure:"brokers"`
	Topics        []string `mapstructure:"topics"`
	GroupID       string   `mapstructure:"group_id"`
	Version       string   `mapstructure:"version"`
	InitialOffset string   `mapstructure:"initial_offset" validate:"omitempty,oneof=oldest newest"`
}

// Elasticsearch is the configuration for Elasticsearch
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses" validate:"required,min=1,dive,required"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	// IncludeDocType emits _type in bulk action lines. Clusters older than 7.x need it, 8.x rejects it.
	IncludeDocType bool   `mapstructure:"include_doc_type"`
	Refresh        string `mapstructure:"refresh" validate:"omitempty,oneof=true false wait_for"`
}
