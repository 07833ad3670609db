// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"lokai/models"

	"github.com/go-redis/redis/v8"
)

const translationPrefix = "ai:tr:"

// TranslationStore caches LLM translations in Redis. Query translations are
// keyed by language and query text, vendor translations by language and the
// translatable fields, so an edited vendor misses the cache.
type TranslationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranslationStore(client *redis.Client, ttl time.Duration) *TranslationStore {
	return &TranslationStore{client: client, ttl: ttl}
}

func hashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func queryKey(lang models.LanguageCode, query string) string {
	return translationPrefix + "q:" + string(lang) + ":" + hashKey(query)
}

func vendorKey(lang models.LanguageCode, v models.VendorText) string {
	return translationPrefix + "v:" + string(lang) + ":" + hashKey(v.ID, v.BusinessName, v.ServiceType, v.BusinessAddress)
}

// get reports whether key was present. A nil store always misses.
func (s *TranslationStore) get(ctx context.Context, key string, out any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TranslationStore) set(ctx context.Context, key string, v any) error {
	if s == nil || s.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *TranslationStore) GetQuery(ctx context.Context, lang models.LanguageCode, query string) (string, bool, error) {
	var out string
	ok, err := s.get(ctx, queryKey(lang, query), &out)
	return out, ok, err
}

func (s *TranslationStore) SetQuery(ctx context.Context, lang models.LanguageCode, query, translated string) error {
	return s.set(ctx, queryKey(lang, query), translated)
}

func (s *TranslationStore) GetVendor(ctx context.Context, lang models.LanguageCode, v models.VendorText) (models.VendorText, bool, error) {
	var out models.VendorText
	ok, err := s.get(ctx, vendorKey(lang, v), &out)
	return out, ok, err
}

func (s *TranslationStore) SetVendor(ctx context.Context, lang models.LanguageCode, source, translated models.VendorText) error {
	return s.set(ctx, vendorKey(lang, source), translated)
}
