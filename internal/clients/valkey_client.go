package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

const verdictTTLSeconds = 86400

// ValkeyClient caches moderation verdicts so repeat checks of the same
// bytes skip the classifier. Entries are keyed by bucket, key, and etag:
// replacing an object changes its etag, so the new content is always
// classified fresh. The cache is optional end to end: when
// VALKEY_INIT_ADDRESS is unset InitValkey returns nil and callers run
// uncached.
type ValkeyClient struct {
	client valkey.Client
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
		if valkeyAddr == "" {
			slog.Info("[ValkeyClient] No address configured, verdict caching disabled")
			return
		}

		opts := valkey.ClientOption{
			InitAddress:      []string{valkeyAddr},
			Password:         os.Getenv("VALKEY_PASSWORD"),
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}
		if os.Getenv("VALKEY_TLS") == "true" {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", res.Error()))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{client: client}
	})
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.client.Close()
	}
}

func verdictKey(ref storage.ObjectRef, etag string) string {
	return "moderation:verdict:" + ref.Bucket + "/" + ref.Key + "@" + etag
}

func (vc *ValkeyClient) GetVerdict(ctx context.Context, ref storage.ObjectRef, etag string) (models.ModerationVerdict, bool) {
	key := verdictKey(ref, etag)
	res := vc.client.Do(ctx, vc.client.B().Get().Key(key).Build())
	if res.Error() != nil {
		if !valkey.IsValkeyNil(res.Error()) {
			slog.Warn("[ValkeyClient] Verdict lookup failed",
				slog.String("key", key),
				slog.String("error", res.Error().Error()))
		}
		return models.ModerationVerdict{}, false
	}

	raw, err := res.AsBytes()
	if err != nil {
		return models.ModerationVerdict{}, false
	}

	var verdict models.ModerationVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		slog.Warn("[ValkeyClient] Dropping unreadable cached verdict",
			slog.String("key", key))
		return models.ModerationVerdict{}, false
	}
	return verdict, true
}

func (vc *ValkeyClient) StoreVerdict(ctx context.Context, ref storage.ObjectRef, etag string, verdict models.ModerationVerdict) {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return
	}

	key := verdictKey(ref, etag)
	completed := []valkey.Completed{
		vc.client.B().Set().Key(key).Value(string(raw)).Build(),
		vc.client.B().Expire().Key(key).Seconds(verdictTTLSeconds).Build(),
	}
	for _, res := range vc.client.DoMulti(ctx, completed...) {
		if res.Error() != nil {
			slog.Warn("[ValkeyClient] Failed to cache verdict",
				slog.String("key", key),
				slog.String("error", res.Error().Error()))
			return
		}
	}
}
