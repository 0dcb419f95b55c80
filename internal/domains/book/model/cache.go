package model

import (
	"context"
	"strconv"

	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

const (
	bookCacheKeyPrefix = "book:"
	bookCachePattern   = bookCacheKeyPrefix + "*"
	StatisticsCacheKey = "books:statistics"
)

func BookCacheKey(id int64) string {
	return bookCacheKeyPrefix + strconv.FormatInt(id, 10)
}

// InvalidateBookCaches drops every cached book and the statistics. Author
// and category writes call it too since books embed their names.
func InvalidateBookCaches(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.DeletePattern(ctx, bookCachePattern); err != nil {
		logger.Warn("Failed to invalidate book cache", map[string]interface{}{"error": err.Error()})
	}
	if err := c.Delete(ctx, StatisticsCacheKey); err != nil {
		logger.Warn("Failed to invalidate statistics cache", map[string]interface{}{"error": err.Error()})
	}
}
