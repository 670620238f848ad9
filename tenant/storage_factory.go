package tenant

import (
	"context"
	"encoding/json"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/kv"
)

var factoryBucket = []byte("factoriesv1")

func unmarshalFactory(v []byte) (*factoryd.Factory, error) {
	f := &factoryd.Factory{}
	if err := json.Unmarshal(v, f); err != nil {
		return nil, ErrCorruptFactory(err)
	}

	return f, nil
}

func marshalFactory(f *factoryd.Factory) ([]byte, error) {
	v, err := json.Marshal(f)
	if err != nil {
		return nil, ErrUnprocessableFactory(err)
	}

	return v, nil
}

func (s *Store) GetFactory(ctx context.Context, tx kv.Tx, id platform.ID) (f *factoryd.Factory, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindFactoryByID))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidFactoryIDError(err)
	}

	b, err := tx.Bucket(factoryBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil, ErrFactoryNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalFactory(v)
}

// ListFactories returns all factories in ascending key order, which for
// snowflake IDs is insertion order.
func (s *Store) ListFactories(ctx context.Context, tx kv.Tx) (fs []*factoryd.Factory, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindFactories))
	}()
	b, err := tx.Bucket(factoryBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	fs = []*factoryd.Factory{}
	return fs, kv.WalkCursor(ctx, cursor, func(k, v []byte) (bool, error) {
		f, err := unmarshalFactory(v)
		if err != nil {
			return false, err
		}
		fs = append(fs, f)
		return true, nil
	})
}

func (s *Store) CreateFactory(ctx context.Context, tx kv.Tx, f *factoryd.Factory) (err error) {
	defer func() {
		err = errors.ErrInternalServiceError(err, errors.WithErrorOp(factoryd.OpCreateFactory))
	}()
	f.ID, err = s.generateSafeID(ctx, tx, factoryBucket, s.FactoryIDGen)
	if err != nil {
		return err
	}

	encodedID, err := f.ID.Encode()
	if err != nil {
		return InvalidFactoryIDError(err)
	}

	b, err := tx.Bucket(factoryBucket)
	if err != nil {
		return err
	}

	v, err := marshalFactory(f)
	if err != nil {
		return err
	}

	return b.Put(encodedID, v)
}

func (s *Store) UpdateFactory(ctx context.Context, tx kv.Tx, id platform.ID, upd factoryd.FactoryUpdate) (f *factoryd.Factory, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpUpdateFactory))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidFactoryIDError(err)
	}

	f, err = s.GetFactory(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		f.Name = *upd.Name
	}
	if upd.Location != nil {
		f.Location = *upd.Location
	}
	if upd.Capacity != nil {
		f.Capacity = *upd.Capacity
	}

	v, err := marshalFactory(f)
	if err != nil {
		return nil, err
	}

	b, err := tx.Bucket(factoryBucket)
	if err != nil {
		return nil, err
	}
	if err := b.Put(encodedID, v); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *Store) DeleteFactory(ctx context.Context, tx kv.Tx, id platform.ID) (retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpDeleteFactory))
	}()
	if _, err := s.GetFactory(ctx, tx, id); err != nil {
		return err
	}

	encodedID, err := id.Encode()
	if err != nil {
		return InvalidFactoryIDError(err)
	}

	b, err := tx.Bucket(factoryBucket)
	if err != nil {
		return err
	}

	return b.Delete(encodedID)
}
