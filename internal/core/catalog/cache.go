// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/folioworks/folio/internal/platform/constants"
	"github.com/folioworks/folio/pkg/pagination"
)

// listCache is a best-effort Redis cache in front of the public catalog
// listings. Every error is logged and swallowed: a cache outage degrades to
// database reads, never to request failures.
type listCache struct {
	client *redis.Client
	logger *slog.Logger
}

// cachedList is the serialized payload of one listing page.
type cachedList struct {
	Entries []*Entry `json:"entries"`
	Total   int      `json:"total"`
}

func newListCache(client *redis.Client, logger *slog.Logger) *listCache {
	return &listCache{client: client, logger: logger}
}

func listKey(kind Kind, filter string, page pagination.Params) string {
	return fmt.Sprintf("%s%s:q=%s:page=%d:limit=%d",
		constants.RedisPrefixCatalogList, kind, filter, page.Page, page.Limit)
}

func (cache *listCache) get(ctx context.Context, kind Kind, filter string, page pagination.Params) (*cachedList, bool) {
	if cache.client == nil {
		return nil, false
	}

	raw, err := cache.client.Get(ctx, listKey(kind, filter, page)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.WarnContext(ctx, "catalog_cache_get_failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	payload := &cachedList{}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, false
	}
	return payload, true
}

func (cache *listCache) set(ctx context.Context, kind Kind, filter string, page pagination.Params, payload *cachedList) {
	if cache.client == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, listKey(kind, filter, page), raw, constants.CatalogListCacheTTL).Err(); err != nil {
		cache.logger.WarnContext(ctx, "catalog_cache_set_failed", slog.String("error", err.Error()))
	}
}

// invalidate drops every cached page for a kind after a catalog write.
func (cache *listCache) invalidate(ctx context.Context, kind Kind) {
	if cache.client == nil {
		return
	}

	pattern := fmt.Sprintf("%s%s:*", constants.RedisPrefixCatalogList, kind)

	iter := cache.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := cache.client.Del(ctx, iter.Val()).Err(); err != nil {
			cache.logger.WarnContext(ctx, "catalog_cache_del_failed", slog.String("error", err.Error()))
		}
	}
	if err := iter.Err(); err != nil {
		cache.logger.WarnContext(ctx, "catalog_cache_scan_failed", slog.String("error", err.Error()))
	}
}
