package appcontext

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextId int

const (
	stageKeyId contextId = iota
	runIdKeyId
	serviceKeyId
)

func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKeyId, stage)
}

func WithRunId(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, runIdKeyId, id)
}

func WithService(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, serviceKeyId, service)
}

func LoggerFromContext(logger logrus.FieldLogger, ctx context.Context) logrus.FieldLogger {
	if ctx == nil {
		return logger
	}

	result := logger

	if ctxStage, ok := ctx.Value(stageKeyId).(string); ok && ctxStage != "" {
		result = result.WithField("stage", ctxStage)
	}

	if ctxRunId, ok := ctx.Value(runIdKeyId).(int64); ok && ctxRunId != 0 {
		result = result.WithField("run_id", ctxRunId)
	}

	if ctxService, ok := ctx.Value(serviceKeyId).(string); ok && ctxService != "" {
		result = result.WithField("service", ctxService)
	}

	return result
}
