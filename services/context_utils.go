package services

import "context"

// persistentContext detaches ctx from request cancellation for work that
// outlives the handler, such as email delivery.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
