package moderation

import (
	"context"
	"fmt"

	"imageblog/internal/models"
	"imageblog/internal/storage"
)

// MinConfidence is the fixed confidence threshold for moderation labels.
// Labels below it never reach the verdict.
const MinConfidence float32 = 75

type Classifier interface {
	DetectLabels(ctx context.Context, ref storage.ObjectRef, minConfidence float32) ([]string, error)
}

// VerdictCache memoizes verdicts per object content, not per object
// location: the etag identifies the bytes, so overwriting a key never
// resurfaces the previous content's verdict. Lookups and stores are
// best-effort; a broken cache must never fail a check.
type VerdictCache interface {
	GetVerdict(ctx context.Context, ref storage.ObjectRef, etag string) (models.ModerationVerdict, bool)
	StoreVerdict(ctx context.Context, ref storage.ObjectRef, etag string, verdict models.ModerationVerdict)
}

// Gate decides whether an image passes moderation. It owns no side
// effects: purging and alerting stay with the caller, which knows whether
// there is a user to answer to.
type Gate struct {
	classifier Classifier
	cache      VerdictCache
}

// NewGate wires a classifier and an optional verdict cache (nil disables
// caching).
func NewGate(classifier Classifier, cache VerdictCache) *Gate {
	return &Gate{classifier: classifier, cache: cache}
}

// Check classifies the object at ref. etag is the content identity of the
// bytes being checked (S3 event records carry it); callers that do not
// know it pass "" and run uncached, since a location-keyed lookup could
// return a verdict for bytes that have since been replaced.
func (g *Gate) Check(ctx context.Context, ref storage.ObjectRef, etag string) (models.ModerationVerdict, error) {
	cacheable := g.cache != nil && etag != ""

	if cacheable {
		if verdict, ok := g.cache.GetVerdict(ctx, ref, etag); ok {
			return verdict, nil
		}
	}

	labels, err := g.classifier.DetectLabels(ctx, ref, MinConfidence)
	if err != nil {
		return models.ModerationVerdict{}, fmt.Errorf("[Moderation] failed to classify %s: %w", ref, err)
	}

	verdict := models.ModerationVerdict{
		Flagged: len(labels) > 0,
		Labels:  labels,
	}

	if cacheable {
		g.cache.StoreVerdict(ctx, ref, etag, verdict)
	}

	return verdict, nil
}
