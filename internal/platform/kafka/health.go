// Package kafka holds shared Kafka plumbing that is not specific to
// producing or consuming.
package kafka

import (
	"context"
	"fmt"
	"net"
	"time"
)

// HealthChecker verifies broker reachability with a plain TCP dial. It is
// intentionally independent of any client library so readiness probes stay
// cheap and do not consume produce quota.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

// NewHealthChecker builds a checker for the given seed brokers.
func NewHealthChecker(brokers []string, timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{brokers: brokers, timeout: timeout}
}

// Check dials each broker until one answers. All brokers down is an error.
func (h *HealthChecker) Check(ctx context.Context) error {
	if len(h.brokers) == 0 {
		return fmt.Errorf("kafka health: no brokers configured")
	}

	var lastErr error
	for _, broker := range h.brokers {
		d := net.Dialer{Timeout: h.timeout}
		conn, err := d.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close()
		return nil
	}
	return fmt.Errorf("kafka health: no broker reachable: %w", lastErr)
}
