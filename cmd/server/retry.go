package main

import (
	"time"

	"go.uber.org/zap"
)

type retryPolicy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// brokers started alongside the service may take a while to accept connections
var defaultRetryPolicy = retryPolicy{
	maxRetries:   10,
	initialDelay: 2 * time.Second,
	maxDelay:     30 * time.Second,
}

// delay returns the capped exponential backoff before the retry following attempt
func (p retryPolicy) delay(attempt int) time.Duration {
	d := p.initialDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.maxDelay {
			return p.maxDelay
		}
	}
	return d
}

// connectWithRetry calls connect until it succeeds or the policy is exhausted,
// returning the last error in that case
func connectWithRetry[T any](logger *zap.Logger, name string, policy retryPolicy, connect func() (T, error)) (T, error) {
	var (
		conn T
		err  error
	)
	if policy.maxRetries < 1 {
		policy.maxRetries = 1
	}
	for attempt := 0; attempt < policy.maxRetries; attempt++ {
		conn, err = connect()
		if err == nil {
			return conn, nil
		}
		if attempt == policy.maxRetries-1 {
			break
		}

		delay := policy.delay(attempt)
		logger.Warn("failed_to_connect_retrying",
			zap.String("dependency", name),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", policy.maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return conn, err
}
