package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"desyncScope/internal/model"
)

// Store holds both input datasets for a single run.
type Store struct {
	Failed     model.FailedMatchDataset
	Increments model.IncrementDataset
}

// Load reads the failed-match and increment datasets.
func Load(failedPath, incrementPath string, logger *zap.Logger) (*Store, error) {
	failed, err := LoadFailedMatches(failedPath, logger)
	if err != nil {
		return nil, err
	}
	increments, err := LoadIncrements(incrementPath, logger)
	if err != nil {
		return nil, err
	}
	return &Store{Failed: failed, Increments: increments}, nil
}

// LoadFailedMatches reads a failed matchOrders analysis file.
func LoadFailedMatches(path string, logger *zap.Logger) (model.FailedMatchDataset, error) {
	return loadFile[model.FailedMatchRecord](path, logger)
}

// LoadIncrements reads an incrementNonce call log.
func LoadIncrements(path string, logger *zap.Logger) (model.IncrementDataset, error) {
	return loadFile[model.IncrementRecord](path, logger)
}

type envelope struct {
	Count json.RawMessage `json:"count"`
	Rows  json.RawMessage `json:"rows"`
}

func loadFile[T any](path string, logger *zap.Logger) (model.Dataset[T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Dataset[T]{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return model.Dataset[T]{}, fmt.Errorf("stat dataset: %w", err)
	}
	if stat.IsDir() {
		return model.Dataset[T]{}, fmt.Errorf("%w: %s is a directory", ErrDatasetNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Dataset[T]{}, fmt.Errorf("read dataset: %w", err)
	}

	ds, rawCount, err := decode[T](data)
	if err != nil {
		return model.Dataset[T]{}, fmt.Errorf("%w: %s: %v", ErrDatasetMalformed, path, err)
	}
	if len(rawCount) > 0 {
		var count model.Quantity
		if err := json.Unmarshal(rawCount, &count); err != nil {
			logger.Warn("dataset count unreadable, using row count",
				zap.String("path", path),
				zap.ByteString("count", rawCount),
				zap.Error(err),
			)
		} else {
			ds.Count = &count
		}
	}

	if ds.Rows == nil {
		logger.Warn("dataset has no rows field", zap.String("path", path))
		ds.Rows = []T{}
	}
	if ds.Count != nil && ds.Count.Uint64() != uint64(len(ds.Rows)) {
		logger.Warn("dataset count mismatch",
			zap.String("path", path),
			zap.Uint64("declared", ds.Count.Uint64()),
			zap.Int("rows", len(ds.Rows)),
		)
	}

	logger.Debug("dataset loaded", zap.String("path", path), zap.Int("rows", len(ds.Rows)))
	return ds, nil
}

// decode returns a dataset with nil Rows when the rows field is absent or
// null, plus the undecoded count field. A null count is returned as empty.
func decode[T any](data []byte) (model.Dataset[T], json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Dataset[T]{}, nil, err
	}

	count := bytes.TrimSpace(env.Count)
	if bytes.Equal(count, []byte("null")) {
		count = nil
	}

	var ds model.Dataset[T]
	rows := bytes.TrimSpace(env.Rows)
	if len(rows) == 0 || bytes.Equal(rows, []byte("null")) {
		return ds, count, nil
	}

	parsed := make([]T, 0)
	if err := json.Unmarshal(rows, &parsed); err != nil {
		return model.Dataset[T]{}, nil, fmt.Errorf("decode rows: %w", err)
	}
	ds.Rows = parsed
	return ds, count, nil
}
