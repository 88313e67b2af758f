package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/util"
)

type Config struct {
	AssemblyWorkers     int
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	BaseWorkingDir      string
	ConfigName          string
	DestinationDir      string
	ListPageSize        int
	LogDir              string
	LogLevel            logging.Level
	MaxKeys             int
	OriginDir           string
	RedisDefaultDB      int
	RedisPassword       string
	RedisURL            string
	RoleARN             string
	RoleDurationSeconds int
	RoleSessionName     string
	S3Endpoint          string
	SourceBucket        string
	SourcePrefix        string
	STSEndpoint         string
	TaskTimeout         time.Duration
	TransferWorkers     int
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// NewConfig returns a new config based on ENV var MEDIASYNC_ENV.
func NewConfig() *Config {
	config := loadConfig()
	config.expandPaths()
	config.sanityCheck()
	config.makeDirs()
	return config
}

func loadConfig() *Config {
	configDir, envName := getEnvVars()
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	v.SetDefault("LIST_PAGE_SIZE", constants.DefaultListPageSize)
	v.SetDefault("MAX_KEYS", constants.UnlimitedKeys)
	v.SetDefault("TRANSFER_WORKERS", constants.DefaultTransferWorkers)
	v.SetDefault("ASSEMBLY_WORKERS", constants.DefaultAssemblyWorkers)
	v.SetDefault("TASK_TIMEOUT", "5m")
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &Config{
		AssemblyWorkers:     v.GetInt("ASSEMBLY_WORKERS"),
		AWSAccessKeyID:      v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:  v.GetString("AWS_SECRET_ACCESS_KEY"),
		BaseWorkingDir:      v.GetString("BASE_WORKING_DIR"),
		ConfigName:          envName,
		DestinationDir:      v.GetString("DESTINATION_DIR"),
		ListPageSize:        v.GetInt("LIST_PAGE_SIZE"),
		LogDir:              v.GetString("LOG_DIR"),
		LogLevel:            logLevels[v.GetString("LOG_LEVEL")],
		MaxKeys:             v.GetInt("MAX_KEYS"),
		OriginDir:           v.GetString("ORIGIN_DIR"),
		RedisDefaultDB:      v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisURL:            v.GetString("REDIS_URL"),
		RoleARN:             v.GetString("ROLE_ARN"),
		RoleDurationSeconds: v.GetInt("ROLE_DURATION_SECONDS"),
		RoleSessionName:     v.GetString("ROLE_SESSION_NAME"),
		S3Endpoint:          v.GetString("S3_ENDPOINT"),
		SourceBucket:        v.GetString("SOURCE_BUCKET"),
		SourcePrefix:        v.GetString("SOURCE_PREFIX"),
		STSEndpoint:         v.GetString("STS_ENDPOINT"),
		TaskTimeout:         v.GetDuration("TASK_TIMEOUT"),
		TransferWorkers:     v.GetInt("TRANSFER_WORKERS"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("MEDIASYNC_CONFIG_DIR")
	envName := getRequiredEnvVar("MEDIASYNC_ENV")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() {
	c.BaseWorkingDir = expandPath(c.BaseWorkingDir)
	c.DestinationDir = expandPath(c.DestinationDir)
	c.LogDir = expandPath(c.LogDir)
	c.OriginDir = expandPath(c.OriginDir)
}

func expandPath(dirName string) string {
	dir, err := util.ExpandTilde(dirName)
	if err != nil {
		panic(err)
	}
	return dir
}

// sanityCheck panics on settings that would poison a run: missing
// credentials, a missing role, or a role duration STS would reject.
// Config errors are fatal startup errors, not pipeline errors.
func (c *Config) sanityCheck() {
	required := map[string]string{
		"AWS_ACCESS_KEY_ID":     c.AWSAccessKeyID,
		"AWS_SECRET_ACCESS_KEY": c.AWSSecretAccessKey,
		"DESTINATION_DIR":       c.DestinationDir,
		"LOG_DIR":               c.LogDir,
		"ORIGIN_DIR":            c.OriginDir,
		"ROLE_ARN":              c.RoleARN,
		"ROLE_SESSION_NAME":     c.RoleSessionName,
		"S3_ENDPOINT":           c.S3Endpoint,
		"SOURCE_BUCKET":         c.SourceBucket,
		"STS_ENDPOINT":          c.STSEndpoint,
	}
	for name, value := range required {
		if value == "" {
			panic(fmt.Sprintf("Required config setting %s is missing", name))
		}
	}
	if c.RoleDurationSeconds <= 0 {
		panic(fmt.Sprintf("ROLE_DURATION_SECONDS must be a positive number of seconds, got %d", c.RoleDurationSeconds))
	}
	if c.MaxKeys < constants.UnlimitedKeys {
		panic(fmt.Sprintf("MAX_KEYS must be -1 (unlimited) or a non-negative bound, got %d", c.MaxKeys))
	}
}

func (c *Config) makeDirs() {
	dirs := []string{
		c.DestinationDir,
		c.LogDir,
		c.OriginDir,
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

// PidFilePath returns the path of the pid file guarding the given
// data dir.
func (c *Config) PidFilePath(dataDir string) string {
	return filepath.Join(dataDir, ".mediasync.pid")
}

// ToJSON is for startup logging. Credentials are deliberately
// excluded: they must never appear in logs.
func (c *Config) ToJSON() string {
	return fmt.Sprintf(
		`{"config_name": %q, "source_bucket": %q, "source_prefix": %q, `+
			`"origin_dir": %q, "destination_dir": %q, "role_arn": %q, `+
			`"transfer_workers": %d, "assembly_workers": %d, `+
			`"list_page_size": %d, "max_keys": %d, "task_timeout": %q}`,
		c.ConfigName, c.SourceBucket, c.SourcePrefix,
		c.OriginDir, c.DestinationDir, c.RoleARN,
		c.TransferWorkers, c.AssemblyWorkers,
		c.ListPageSize, c.MaxKeys, c.TaskTimeout.String())
}
