package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) bool

func (f HealthCheckFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// Checks is healthy only when every checker in it is healthy.
// An empty set is healthy.
type Checks []HealthChecker

func (c Checks) Healthy(ctx context.Context) bool {
	for _, hc := range c {
		if !hc.Healthy(ctx) {
			return false
		}
	}
	return true
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}
