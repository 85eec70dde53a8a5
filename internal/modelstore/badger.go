// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package modelstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/Samhita-kolluri/homiehub-23/internal/drift"
	"github.com/Samhita-kolluri/homiehub-23/internal/fairness"
)

// Key prefixes for BadgerDB storage
const (
	modelKeyPrefix       = "model:"
	biasReportKeyPrefix  = "biasreport:"
	driftReportKeyPrefix = "driftreport:"
	productionKey        = "production"
	baselineKey          = "baseline:current"
)

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// Open opens a BadgerDB-backed store at path. An empty path opens an
// in-memory database, used for tests and ephemeral deployments.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for models: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// SaveModel creates or overwrites a model record.
func (s *BadgerStore) SaveModel(ctx context.Context, m *ModelVersion) error {
	return s.put(modelKeyPrefix+m.ID, m)
}

// GetModel retrieves a model by ID.
func (s *BadgerStore) GetModel(ctx context.Context, id string) (*ModelVersion, error) {
	var m ModelVersion
	if err := s.get(modelKeyPrefix+id, &m, ErrModelNotFound); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListModels returns all models newest-first by training time.
func (s *BadgerStore) ListModels(ctx context.Context) ([]*ModelVersion, error) {
	var models []*ModelVersion
	err := s.scan(modelKeyPrefix, func(val []byte) error {
		var m ModelVersion
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		models = append(models, &m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].TrainedAt.After(models[j].TrainedAt)
	})
	return models, nil
}

// Production returns the model named by the production pointer.
func (s *BadgerStore) Production(ctx context.Context) (*ModelVersion, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(productionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoProduction
		}
		if err != nil {
			return fmt.Errorf("get production pointer: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetModel(ctx, id)
}

// SetProduction atomically promotes the named model and retires the
// previous production model. The previous model record, the new model
// record, and the pointer all move in one transaction.
func (s *BadgerStore) SetProduction(ctx context.Context, id string) (*ModelVersion, error) {
	var promoted *ModelVersion

	err := s.db.Update(func(txn *badger.Txn) error {
		next, err := getModelTxn(txn, id)
		if err != nil {
			return err
		}
		if err := next.Transition(StateProduction); err != nil {
			return err
		}

		// Retire the outgoing production model, if any.
		item, err := txn.Get([]byte(productionKey))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// Bootstrap promotion, nothing to retire.
		case err != nil:
			return fmt.Errorf("get production pointer: %w", err)
		default:
			var prevID string
			if err := item.Value(func(val []byte) error {
				prevID = string(val)
				return nil
			}); err != nil {
				return err
			}
			if prevID != id {
				prev, err := getModelTxn(txn, prevID)
				if err != nil {
					return err
				}
				if err := prev.Transition(StateRetired); err != nil {
					return err
				}
				if err := putTxn(txn, modelKeyPrefix+prevID, prev); err != nil {
					return err
				}
			}
		}

		if err := putTxn(txn, modelKeyPrefix+id, next); err != nil {
			return err
		}
		if err := txn.Set([]byte(productionKey), []byte(id)); err != nil {
			return fmt.Errorf("set production pointer: %w", err)
		}

		promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// SaveBaseline replaces the drift baseline.
func (s *BadgerStore) SaveBaseline(ctx context.Context, b *Baseline) error {
	return s.put(baselineKey, b)
}

// GetBaseline returns the current drift baseline.
func (s *BadgerStore) GetBaseline(ctx context.Context) (*Baseline, error) {
	var b Baseline
	if err := s.get(baselineKey, &b, ErrNoBaseline); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBiasReport persists a fairness audit report.
func (s *BadgerStore) SaveBiasReport(ctx context.Context, r *fairness.BiasReport) error {
	return s.put(biasReportKeyPrefix+r.ID, r)
}

// GetBiasReport retrieves a bias report by ID.
func (s *BadgerStore) GetBiasReport(ctx context.Context, id string) (*fairness.BiasReport, error) {
	var r fairness.BiasReport
	if err := s.get(biasReportKeyPrefix+id, &r, ErrReportNotFound); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListBiasReports returns bias reports newest-first.
func (s *BadgerStore) ListBiasReports(ctx context.Context, limit int) ([]*fairness.BiasReport, error) {
	var reports []*fairness.BiasReport
	err := s.scan(biasReportKeyPrefix, func(val []byte) error {
		var r fairness.BiasReport
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		reports = append(reports, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// SaveDriftReport persists a drift detection report.
func (s *BadgerStore) SaveDriftReport(ctx context.Context, r *drift.Report) error {
	return s.put(driftReportKeyPrefix+r.ID, r)
}

// GetDriftReport retrieves a drift report by ID.
func (s *BadgerStore) GetDriftReport(ctx context.Context, id string) (*drift.Report, error) {
	var r drift.Report
	if err := s.get(driftReportKeyPrefix+id, &r, ErrReportNotFound); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDriftReports returns drift reports newest-first.
func (s *BadgerStore) ListDriftReports(ctx context.Context, limit int) ([]*drift.Report, error) {
	var reports []*drift.Report
	err := s.scan(driftReportKeyPrefix, func(val []byte) error {
		var r drift.Report
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		reports = append(reports, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// put marshals and stores one record.
func (s *BadgerStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get loads and unmarshals one record, mapping badger's not-found to the
// caller's sentinel.
func (s *BadgerStore) get(key string, v any, notFound error) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// scan iterates all values under a prefix.
func (s *BadgerStore) scan(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return fmt.Errorf("scan %s: %w", prefix, err)
			}
		}
		return nil
	})
}

func getModelTxn(txn *badger.Txn, id string) (*ModelVersion, error) {
	item, err := txn.Get([]byte(modelKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get model %s: %w", id, err)
	}
	var m ModelVersion
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &m)
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

func putTxn(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}
