package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/verident/mediasync/models/service"
)

// S3Broker exchanges long-lived identity credentials plus a role ARN
// for a short-lived credential set via STS AssumeRole, and hands out
// one S3 client bound to those credentials. The broker is constructed
// explicitly and passed to whoever needs it; there is no package-level
// singleton.
//
// Client construction happens at most once per broker, even under
// concurrent first access. After construction the cached client is
// read-only, so callers share it without further locking. The STS
// credentials provider tracks expiry and re-runs the exchange when
// the issued credentials lapse, so the client never goes stale.
type S3Broker struct {
	S3Endpoint          string
	STSEndpoint         string
	AccessKeyID         string
	SecretAccessKey     string
	RoleARN             string
	RoleSessionName     string
	RoleDurationSeconds int
	UseSSL              bool

	mutex  sync.Mutex
	client *minio.Client
}

func NewS3Broker(s3Endpoint, stsEndpoint, accessKeyID, secretAccessKey, roleARN, roleSessionName string, roleDurationSeconds int, useSSL bool) *S3Broker {
	return &S3Broker{
		S3Endpoint:          s3Endpoint,
		STSEndpoint:         stsEndpoint,
		AccessKeyID:         accessKeyID,
		SecretAccessKey:     secretAccessKey,
		RoleARN:             roleARN,
		RoleSessionName:     roleSessionName,
		RoleDurationSeconds: roleDurationSeconds,
		UseSSL:              useSSL,
	}
}

// Client returns the shared S3 client, performing the trust exchange
// and constructing the client on first call. A failed exchange
// surfaces a *service.CredentialError; there is no retry at this
// layer, and nothing is cached on failure.
func (b *S3Broker) Client() (*minio.Client, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	if b.RoleDurationSeconds <= 0 {
		return nil, service.NewCredentialError(b.RoleARN,
			fmt.Errorf("role duration must be a positive number of seconds, got %d", b.RoleDurationSeconds))
	}
	creds, err := credentials.NewSTSAssumeRole(b.stsURL(), credentials.STSAssumeRoleOptions{
		AccessKey:       b.AccessKeyID,
		SecretKey:       b.SecretAccessKey,
		RoleARN:         b.RoleARN,
		RoleSessionName: b.sessionName(),
		DurationSeconds: b.RoleDurationSeconds,
	})
	if err != nil {
		return nil, service.NewCredentialError(b.RoleARN, err)
	}
	client, err := minio.New(b.S3Endpoint, &minio.Options{
		Creds:  creds,
		Secure: b.UseSSL,
	})
	if err != nil {
		return nil, service.NewCredentialError(b.RoleARN, err)
	}
	b.client = client
	return b.client, nil
}

// FetchObject downloads one remote object, writing the full body to
// localPath. This is a blocking single-object fetch; the caller
// bounds it through ctx.
func (b *S3Broker) FetchObject(ctx context.Context, bucket, key, localPath string) error {
	client, err := b.Client()
	if err != nil {
		return err
	}
	return client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{})
}

// sessionName suffixes the configured session name with a uuid so
// concurrent processes assuming the same role are distinguishable in
// audit logs.
func (b *S3Broker) sessionName() string {
	return fmt.Sprintf("%s-%s", b.RoleSessionName, uuid.New().String())
}

func (b *S3Broker) stsURL() string {
	scheme := "http"
	if b.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, b.STSEndpoint)
}
