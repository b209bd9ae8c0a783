package logging

import (
	"context"
	"maps"
)

type fieldsKey struct{}

// ContextWithFields layers fields over any already stored on ctx. Loggers
// bound with WithContext include them in every entry; later keys win.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	stored, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(stored) == 0 {
		return nil
	}
	return maps.Clone(stored)
}
