// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StoreConfig holds settings for the SQLite task store.
type StoreConfig struct {
	// DataDir is the directory holding the database file (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// DBFile is the database file name inside DataDir (default "tracker.db").
	DBFile string `json:"db_file" yaml:"db_file" mapstructure:"db_file"`

	// MaxResults caps list queries. Zero means no limit.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ImportConfig holds settings for PRD import.
type ImportConfig struct {
	// CreateProject creates the target project when it does not exist.
	CreateProject bool `json:"create_project" yaml:"create_project" mapstructure:"create_project"`

	// ReviewFile is the default path for the candidate review file
	// (default "prd-review.yaml").
	ReviewFile string `json:"review_file" yaml:"review_file" mapstructure:"review_file"`
}

// TaskConfig holds defaults for tasks created by hand.
type TaskConfig struct {
	// DefaultPriority is used when no priority is given (default medium).
	DefaultPriority Priority `json:"default_priority" yaml:"default_priority" mapstructure:"default_priority"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// TrackerConfig groups all configuration sections.
type TrackerConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Import ImportConfig `json:"import" yaml:"import" mapstructure:"import"`
	Task   TaskConfig   `json:"task" yaml:"task" mapstructure:"task"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
