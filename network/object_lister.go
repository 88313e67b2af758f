package network

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/models/service"
)

// ObjectLister pages through a remote namespace under a prefix,
// yielding a bounded or unbounded sequence of object descriptors.
type ObjectLister struct {
	Broker   *S3Broker
	PageSize int
}

func NewObjectLister(broker *S3Broker, pageSize int) *ObjectLister {
	if pageSize <= 0 {
		pageSize = constants.DefaultListPageSize
	}
	return &ObjectLister{
		Broker:   broker,
		PageSize: pageSize,
	}
}

// List yields descriptors for the objects under bucket/prefix. The
// listing pages through the namespace PageSize keys at a time rather
// than requesting the full listing at once.
//
// If limit is non-negative, the channel yields exactly limit
// descriptors, truncating the final page as needed. If limit is
// constants.UnlimitedKeys (-1), it continues until the namespace is
// exhausted. The channel is consumed once; restarting requires a
// fresh List call.
//
// A listing failure arrives on the channel as a descriptor whose Err
// is a *service.ListingError, after which the channel closes. Items
// yielded before the failure remain valid.
func (l *ObjectLister) List(ctx context.Context, bucket, prefix string, limit int) <-chan service.ObjectDescriptor {
	out := make(chan service.ObjectDescriptor)
	go func() {
		defer close(out)
		if limit == 0 {
			return
		}
		client, err := l.Broker.Client()
		if err != nil {
			out <- service.ObjectDescriptor{Err: err}
			return
		}
		// Cancelling the list context stops minio's paging
		// goroutine once we've relayed enough items.
		listCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		objectCh := client.ListObjects(listCtx, bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
			MaxKeys:   l.PageSize,
		})
		relayObjects(out, objectCh, bucket, prefix, limit)
	}()
	return out
}

// relayObjects copies minio object info into descriptors, enforcing
// the limit. It is separate from List so the truncation behavior can
// be driven by any source channel.
func relayObjects(out chan<- service.ObjectDescriptor, in <-chan minio.ObjectInfo, bucket, prefix string, limit int) {
	yielded := 0
	for obj := range in {
		if obj.Err != nil {
			out <- service.ObjectDescriptor{
				Err: service.NewListingError(bucket, prefix, obj.Err),
			}
			return
		}
		out <- service.ObjectDescriptor{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		}
		yielded++
		if limit >= 0 && yielded >= limit {
			return
		}
	}
}
