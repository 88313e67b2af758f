package common

import (
	"github.com/op/go-logging"
	"github.com/verident/mediasync/network"
	"github.com/verident/mediasync/util/logger"
)

// Context holds the config plus the clients shared by every worker in
// this process. The S3 broker is the only shared mutable resource,
// and only during its one-time lazy construction; everything else is
// read-only after NewContext returns.
type Context struct {
	Config      *Config
	Logger      *logging.Logger
	S3Broker    *network.S3Broker
	Lister      *network.ObjectLister
	HTTPClient  *network.HTTPClient
	RedisClient *network.RedisClient
}

func NewContext() *Context {
	config := NewConfig()
	broker := getS3Broker(config)
	return &Context{
		Config:      config,
		Logger:      getLogger(config),
		S3Broker:    broker,
		Lister:      network.NewObjectLister(broker, config.ListPageSize),
		HTTPClient:  network.NewHTTPClient(),
		RedisClient: getRedisClient(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	logger, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return logger
}

func getS3Broker(config *Config) *network.S3Broker {
	useSSL := true
	if config.ConfigName == "dev" || config.ConfigName == "test" {
		useSSL = false // talking to localhost in dev and test
	}
	return network.NewS3Broker(
		config.S3Endpoint,
		config.STSEndpoint,
		config.AWSAccessKeyID,
		config.AWSSecretAccessKey,
		config.RoleARN,
		config.RoleSessionName,
		config.RoleDurationSeconds,
		useSSL)
}

// getRedisClient returns nil when REDIS_URL is not configured. The
// outcome mirror is optional; the pipeline runs fine without it.
func getRedisClient(config *Config) *network.RedisClient {
	if config.RedisURL == "" {
		return nil
	}
	return network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
}
