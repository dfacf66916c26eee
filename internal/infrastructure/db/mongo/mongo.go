// Package mongo stores the public website data: shipment tracking records,
// quote requests and contact messages.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName         = "maraseel-site"
	pingTimeout     = 5 * time.Second
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	retryBaseWait   = time.Second
)

// Config holds the site database settings.
type Config struct {
	URI      string
	Database string
	// PingTimeout bounds each readiness ping while connecting.
	PingTimeout time.Duration
	// Attempts is how many pings are tried before giving up.
	Attempts int
}

// Connect builds a client for cfg.URI and waits for the primary to answer,
// backing off between attempts while the server starts. The client is
// disconnected again if it never becomes reachable.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	perPing := cfg.PingTimeout
	if perPing <= 0 {
		perPing = pingTimeout
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(perPing)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo client: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := retryBaseWait << (attempt - 1)
			log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", wait).Msg("mongodb not ready, retrying")
			select {
			case <-ctx.Done():
				disconnect(client)
				return nil, nil, fmt.Errorf("mongo connect: %w", ctx.Err())
			case <-time.After(wait):
			}
		}

		pingCtx, cancel := context.WithTimeout(ctx, perPing)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			log.Info().Str("database", cfg.Database).Msg("mongodb connected")
			return client, client.Database(cfg.Database), nil
		}
		if ctx.Err() != nil {
			disconnect(client)
			return nil, nil, fmt.Errorf("mongo connect: %w", ctx.Err())
		}
	}

	disconnect(client)
	return nil, nil, fmt.Errorf("mongo ping after %d attempts: %w", attempts, lastErr)
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	_ = client.Disconnect(ctx)
}
