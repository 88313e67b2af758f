package network

import (
	"fmt"

	"github.com/go-redis/redis/v7"
	"github.com/verident/mediasync/models/service"
)

// RedisClient mirrors per-record outcomes and run summaries into
// Redis so operators can inspect a run while it's in flight or after
// the process exits. The filesystem remains the only source of
// idempotency truth; nothing here is read back by the pipeline.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

func (c *RedisClient) RecordOutcomeSave(runID string, outcome service.RecordOutcome) error {
	key := fmt.Sprintf("run:%s", runID)
	field := fmt.Sprintf("record:%s", outcome.VerificationID)
	jsonData, err := outcome.ToJSON()
	if err != nil {
		return err
	}
	_, err = c.client.HSet(key, field, jsonData).Result()
	return err
}

func (c *RedisClient) RecordOutcomeGet(runID, verificationID string) (service.RecordOutcome, error) {
	key := fmt.Sprintf("run:%s", runID)
	field := fmt.Sprintf("record:%s", verificationID)
	data, err := c.client.HGet(key, field).Result()
	if err != nil {
		return service.RecordOutcome{}, fmt.Errorf("RecordOutcomeGet (%s, %s): %s",
			runID, verificationID, err.Error())
	}
	return service.RecordOutcomeFromJSON(data)
}

func (c *RedisClient) RunSummarySave(runID string, summary *service.RunSummary) error {
	key := fmt.Sprintf("summary:%s", runID)
	jsonData, err := summary.ToJSON()
	if err != nil {
		return err
	}
	_, err = c.client.Set(key, jsonData, 0).Result()
	return err
}

func (c *RedisClient) RunSummaryGet(runID string) (*service.RunSummary, error) {
	key := fmt.Sprintf("summary:%s", runID)
	data, err := c.client.Get(key).Result()
	if err != nil {
		return nil, fmt.Errorf("RunSummaryGet (%s): %s", runID, err.Error())
	}
	return service.RunSummaryFromJSON(data)
}
