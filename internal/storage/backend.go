package storage

import (
	"context"
	"fmt"
)

// Backend kinds accepted by Open
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	redisKeyPrefix = "formdesigner:"
)

// Options selects and configures a backend
type Options struct {
	Kind     string
	Dir      string
	RedisURL string
	Codec    Codec
}

// Open creates the KV backend described by opts. The returned close
// function is never nil.
func Open(ctx context.Context, opts Options) (KV, func() error, error) {
	noop := func() error { return nil }
	codec := opts.Codec
	if codec == nil {
		codec = JSONCodec{}
	}

	switch opts.Kind {
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendFile, "":
		fs, err := NewFileStore(opts.Dir, codec.Ext())
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, noop, fmt.Errorf("redis backend requires a redis url")
		}
		rs, err := NewRedisStore(ctx, opts.RedisURL, redisKeyPrefix)
		if err != nil {
			return nil, noop, err
		}
		return rs, rs.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q (valid: file, redis, memory)", opts.Kind)
	}
}
