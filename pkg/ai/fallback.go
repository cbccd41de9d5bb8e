package ai

import (
	"context"
	"fmt"
	"net"
	"strings"

	"brandpulse-backend/pkg/logger"
)

// FallbackService routes generation to a primary provider and falls back to
// a secondary one on connection or quota errors.
type FallbackService struct {
	primary   Generator
	secondary Generator
	log       *logger.Logger
}

func NewFallbackService(primary, secondary Generator, log *logger.Logger) *FallbackService {
	return &FallbackService{primary: primary, secondary: secondary, log: log}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(net.Error); ok {
		return true
	}
	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// Generate tries the primary provider first and falls back to the secondary
// when the primary hits a connection or quota problem.
func (f *FallbackService) Generate(ctx context.Context, prompt string) (string, error) {
	if f.primary != nil {
		result, err := f.primary.Generate(ctx, prompt)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) || isQuotaError(err) {
			f.log.Warn("primary model unavailable, falling back", "error", err)
		} else {
			f.log.Warn("primary model error, trying secondary", "error", err)
		}
	}

	if f.secondary != nil {
		result, err := f.secondary.Generate(ctx, prompt)
		if err == nil {
			return result, nil
		}
		return "", fmt.Errorf("secondary model failed: %w", err)
	}

	return "", fmt.Errorf("no language-model provider available")
}
