package cache

import (
	"context"
	"time"
)

// NoopCache always misses. Used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error { return nil }
func (NoopCache) DeletePattern(context.Context, string) error { return nil }
func (NoopCache) Ping(context.Context) error { return nil }
