package tenant

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
)

// FactoryLogger is a logging service middleware for the factory service.
type FactoryLogger struct {
	logger         *zap.Logger
	factoryService factoryd.FactoryService
}

// NewFactoryLogger returns a logging service middleware for the Factory Service.
func NewFactoryLogger(log *zap.Logger, s factoryd.FactoryService) *FactoryLogger {
	return &FactoryLogger{
		logger:         log,
		factoryService: s,
	}
}

var _ factoryd.FactoryService = (*FactoryLogger)(nil)

func (l *FactoryLogger) FindFactoryByID(ctx context.Context, id platform.ID) (f *factoryd.Factory, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find factory with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("factory find by ID", dur)
	}(time.Now())
	return l.factoryService.FindFactoryByID(ctx, id)
}

func (l *FactoryLogger) FindFactories(ctx context.Context, filter factoryd.FactoryFilter, opts factoryd.FindOptions) (fs []*factoryd.Factory, n int, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to find factories matching the given filter", zap.Error(err), dur)
			return
		}
		l.logger.Debug("factories find", dur)
	}(time.Now())
	return l.factoryService.FindFactories(ctx, filter, opts)
}

func (l *FactoryLogger) CreateFactory(ctx context.Context, f *factoryd.Factory) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create factory", zap.Error(err), dur)
			return
		}
		l.logger.Debug("factory create", dur)
	}(time.Now())
	return l.factoryService.CreateFactory(ctx, f)
}

func (l *FactoryLogger) UpdateFactory(ctx context.Context, id platform.ID, upd factoryd.FactoryUpdate) (f *factoryd.Factory, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to update factory with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("factory update", dur)
	}(time.Now())
	return l.factoryService.UpdateFactory(ctx, id, upd)
}

func (l *FactoryLogger) DeleteFactory(ctx context.Context, id platform.ID) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to delete factory with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("factory delete", dur)
	}(time.Now())
	return l.factoryService.DeleteFactory(ctx, id)
}
