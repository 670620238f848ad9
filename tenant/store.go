package tenant

import (
	"context"

	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kv"
	"github.com/plantops/factoryd/snowflake"
)

// MaxIDGenerationN is the maximum number of times an ID generation is
// attempted before giving up on finding an unused one.
const MaxIDGenerationN = 100

// Store is the low level CRUD layer over the kv store. All methods
// expect to be called inside a transaction owned by the caller, so a
// service can compose several of them atomically.
type Store struct {
	kvStore kv.Store

	FactoryIDGen platform.IDGenerator
	EntityIDGen  platform.IDGenerator
	UserIDGen    platform.IDGenerator
}

// NewStore creates a tenant store over the provided kv store and
// creates its buckets, so read transactions never observe a store
// without them.
func NewStore(kvStore kv.Store) (*Store, error) {
	st := &Store{
		kvStore:      kvStore,
		FactoryIDGen: snowflake.NewIDGenerator(),
		EntityIDGen:  snowflake.NewIDGenerator(),
		UserIDGen:    snowflake.NewIDGenerator(),
	}
	return st, st.setup()
}

func (s *Store) setup() error {
	return s.Update(context.Background(), func(tx kv.Tx) error {
		for _, b := range [][]byte{
			factoryBucket,
			entityBucket,
			userBucket,
			userIndex,
			userpasswordBucket,
		} {
			if _, err := tx.Bucket(b); err != nil {
				return err
			}
		}
		return nil
	})
}

// View opens up a transaction that will not write to any data.
func (s *Store) View(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.View(ctx, fn)
}

// Update opens up a transaction that will mutate data.
func (s *Store) Update(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.Update(ctx, fn)
}

// generateSafeID generates a new ID that is verified to not already
// exist within the provided bucket.
func (s *Store) generateSafeID(ctx context.Context, tx kv.Tx, bucket []byte, gen platform.IDGenerator) (platform.ID, error) {
	for i := 0; i < MaxIDGenerationN; i++ {
		id := gen.ID()

		err := s.uniqueID(ctx, tx, bucket, id)
		if err == nil {
			return id, nil
		}

		if err == NotUniqueIDError {
			continue
		}

		return platform.InvalidID(), err
	}
	return platform.InvalidID(), ErrFailureGeneratingID
}

func (s *Store) uniqueID(ctx context.Context, tx kv.Tx, bucket []byte, id platform.ID) error {
	encodedID, err := id.Encode()
	if err != nil {
		return platform.ErrCorruptID(err)
	}

	b, err := tx.Bucket(bucket)
	if err != nil {
		return err
	}

	_, err = b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil
	}

	return NotUniqueIDError
}
