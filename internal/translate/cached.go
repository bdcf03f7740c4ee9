package translate

import (
	"context"

	"github.com/everyonewrite/writeguide/internal/cache"
)

// CachedTranslator memoizes successful translations. Reference texts are
// often resubmitted across writing attempts, and the provider bills per
// character, so repeat requests are served from the cache.
type CachedTranslator struct {
	inner Translator
	cache cache.ResultCache
}

func Cached(inner Translator, c cache.ResultCache) *CachedTranslator {
	return &CachedTranslator{inner: inner, cache: c}
}

func (t *CachedTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cache.Key(sourceLang, targetLang, text)
	if cached, ok := t.cache.Get(ctx, key); ok {
		return cached, nil
	}

	translated, err := t.inner.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}

	// A cache write failure only costs a future provider call.
	_ = t.cache.Set(ctx, key, translated)
	return translated, nil
}
