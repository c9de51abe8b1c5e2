package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// Store loads and saves the design through a KV backend
type Store struct {
	kv      KV
	codec   Codec
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewStore creates a Store. A nil codec means JSON.
func NewStore(kv KV, codec Codec, logger *zap.Logger, m *metrics.Metrics) *Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, codec: codec, logger: logger, metrics: m}
}

// LoadFields restores the field list. Absent or malformed state yields an
// empty list; malformed state is logged and discarded.
func (s *Store) LoadFields(ctx context.Context) form.List {
	var fields form.List
	if !s.load(ctx, KeyFields, &fields) {
		return form.List{}
	}
	if err := fields.Validate(); err != nil {
		s.discard(ctx, KeyFields, err)
		return form.List{}
	}
	out := make(form.List, len(fields))
	for i, f := range fields {
		out[i] = f.Normalize()
	}
	return out
}

// LoadTextConfig restores the text config, falling back to the defaults
func (s *Store) LoadTextConfig(ctx context.Context) form.TextConfig {
	cfg := form.DefaultTextConfig()
	var stored form.TextConfig
	if !s.load(ctx, KeyTextConfig, &stored) {
		return cfg
	}
	if err := stored.Validate(); err != nil {
		s.discard(ctx, KeyTextConfig, err)
		return cfg
	}
	return stored
}

// SaveFields persists the field list
func (s *Store) SaveFields(ctx context.Context, fields form.List) error {
	if fields == nil {
		fields = form.List{}
	}
	return s.save(ctx, KeyFields, fields)
}

// SaveTextConfig persists the text config
func (s *Store) SaveTextConfig(ctx context.Context, cfg form.TextConfig) error {
	return s.save(ctx, KeyTextConfig, cfg)
}

func (s *Store) load(ctx context.Context, key string, v any) bool {
	data, err := s.kv.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.metrics.RecordPersistError("load")
		s.logger.Warn("failed to load persisted state", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.codec.Unmarshal(data, v); err != nil {
		s.discard(ctx, key, err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Save(ctx, key, data); err != nil {
		s.metrics.RecordPersistError("save")
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, key string, cause error) {
	ferr := pdferrors.Wrap(pdferrors.ErrorTypeMalformedState, cause).WithContext(key)
	s.logger.Warn("discarding malformed persisted state", zap.String("key", key), zap.Error(ferr))
	s.metrics.RecordPersistError("decode")
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logger.Debug("failed to delete malformed state", zap.String("key", key), zap.Error(err))
	}
}
