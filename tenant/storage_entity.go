package tenant

import (
	"context"
	"encoding/json"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/kv"
)

var entityBucket = []byte("entitiesv1")

func unmarshalEntity(v []byte) (*factoryd.Entity, error) {
	e := &factoryd.Entity{}
	if err := json.Unmarshal(v, e); err != nil {
		return nil, ErrCorruptEntity(err)
	}

	return e, nil
}

func marshalEntity(e *factoryd.Entity) ([]byte, error) {
	v, err := json.Marshal(e)
	if err != nil {
		return nil, ErrUnprocessableEntity(err)
	}

	return v, nil
}

func (s *Store) GetEntity(ctx context.Context, tx kv.Tx, id platform.ID) (e *factoryd.Entity, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindEntityByID))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidEntityIDError(err)
	}

	b, err := tx.Bucket(entityBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil, ErrEntityNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalEntity(v)
}

// ListEntities returns all entities matching the filter in ascending
// key order.
func (s *Store) ListEntities(ctx context.Context, tx kv.Tx, filter factoryd.EntityFilter) (es []*factoryd.Entity, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindEntities))
	}()
	b, err := tx.Bucket(entityBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	es = []*factoryd.Entity{}
	return es, kv.WalkCursor(ctx, cursor, func(k, v []byte) (bool, error) {
		e, err := unmarshalEntity(v)
		if err != nil {
			return false, err
		}
		if filter.FactoryID != nil && e.FactoryID != *filter.FactoryID {
			return true, nil
		}
		es = append(es, e)
		return true, nil
	})
}

func (s *Store) CreateEntity(ctx context.Context, tx kv.Tx, e *factoryd.Entity) (err error) {
	defer func() {
		err = errors.ErrInternalServiceError(err, errors.WithErrorOp(factoryd.OpCreateEntity))
	}()
	e.ID, err = s.generateSafeID(ctx, tx, entityBucket, s.EntityIDGen)
	if err != nil {
		return err
	}

	encodedID, err := e.ID.Encode()
	if err != nil {
		return InvalidEntityIDError(err)
	}

	b, err := tx.Bucket(entityBucket)
	if err != nil {
		return err
	}

	v, err := marshalEntity(e)
	if err != nil {
		return err
	}

	return b.Put(encodedID, v)
}

func (s *Store) UpdateEntity(ctx context.Context, tx kv.Tx, id platform.ID, upd factoryd.EntityUpdate) (e *factoryd.Entity, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpUpdateEntity))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidEntityIDError(err)
	}

	e, err = s.GetEntity(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.FactoryID != nil {
		// existence of the target factory is deliberately not checked,
		// mirroring the API this replaces; see the service tests.
		e.FactoryID = *upd.FactoryID
	}

	v, err := marshalEntity(e)
	if err != nil {
		return nil, err
	}

	b, err := tx.Bucket(entityBucket)
	if err != nil {
		return nil, err
	}
	if err := b.Put(encodedID, v); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, tx kv.Tx, id platform.ID) (retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpDeleteEntity))
	}()
	if _, err := s.GetEntity(ctx, tx, id); err != nil {
		return err
	}

	encodedID, err := id.Encode()
	if err != nil {
		return InvalidEntityIDError(err)
	}

	b, err := tx.Bucket(entityBucket)
	if err != nil {
		return err
	}

	return b.Delete(encodedID)
}
