package mybadger

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/service"

	"github.com/dgraph-io/badger/v4"
	"github.com/minio/sha256-simd"
)

const pipelinePrefix = "pipelines/"

type pipelineStore struct {
	db *badger.DB
}

// NewPipelineStore creates the badger implementation of interfaces.PipelineStore. Definitions are stored
// under pipelines/<sha256 hex of the definition>. Panics on nil db.
//
// Parameter db is opened by OpenDB.
//
// Returns: *pipelineStore.
//
// Called from cmd/pipelinestore.
func NewPipelineStore(db *badger.DB) *pipelineStore {
	return &pipelineStore{
		db: helpers.NilPanic(db, "mybadger.pipeline_store.go: db is required"),
	}
}

// PipelineID returns the content-derived id of definition.
func PipelineID(definition string) domain.PipelineID {
	sum := sha256.Sum256([]byte(definition))
	return domain.PipelineID(hex.EncodeToString(sum[:]))
}

func (s *pipelineStore) Put(_ context.Context, definition string) (domain.PipelineID, error) {
	if definition == "" {
		return "", service.NewBadParameterError("Missing pipeline definition", nil)
	}
	id := PipelineID(definition)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(pipelinePrefix+string(id)), []byte(definition))
	})
	if err != nil {
		return "", service.NewUnavailableError("Badger write error", fmt.Errorf("can't store pipeline %s, err: %w", id, err))
	}
	return id, nil
}

func (s *pipelineStore) Retrieve(_ context.Context, id domain.PipelineID) (string, error) {
	var definition string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(pipelinePrefix + string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			definition = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", service.NewInvalidPipelineError(fmt.Sprintf("Unknown pipeline %s", id), nil)
	}
	if err != nil {
		return "", service.NewUnavailableError("Badger read error", fmt.Errorf("can't read pipeline %s, err: %w", id, err))
	}
	return definition, nil
}
