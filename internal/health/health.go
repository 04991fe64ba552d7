package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/database"
	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/storage"
)

const checkInterval = 10 * time.Second
const checkTimeout = 8 * time.Second

// Checker is a periodic health checker
type Checker struct {
	Ctx     context.Context
	Storage storage.Provider
	// AssetKey is fetched from storage to check it, only needed for checking storage health
	AssetKey string
	Database database.Provider
	Cache    cache.Provider
	status   Status
	mutex    sync.RWMutex
	Log      *logger.Logger
}

// Status contains the healtcheck status
type Status struct {
	Healthy  bool   `json:"healthy"`
	Cache    string `json:"cache,omitempty"`
	Database string `json:"database,omitempty"`
	Storage  string `json:"storage,omitempty"`
}

type check struct {
	result *string
	run    func(ctx context.Context) error
}

// Run starts the health checker
func (c *Checker) Run() {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.runCheck()
			case <-c.Ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	c.runCheck()
}

// Status returns the status of the health checks
func (c *Checker) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.status
}

func (c *Checker) runCheck() {
	ctx, cancel := context.WithTimeout(c.Ctx, checkTimeout)
	defer cancel()

	channel := make(chan Status, 1)
	go c.check(ctx, channel)

	select {
	case <-ctx.Done():
		status, _ := c.checks()
		status.Healthy = false

		c.mutex.Lock()
		c.status = status
		c.mutex.Unlock()

		c.Log.Errorw("healthcheck timed out")
	case status, ok := <-channel:
		if !ok {
			return
		}

		c.mutex.Lock()
		c.status = status
		c.mutex.Unlock()

		if !status.Healthy {
			c.Log.Errorw("healthcheck error",
				"status", status,
			)
		}
	}
}

// checks returns a status with every configured backend marked unknown, and the checks to run
func (c *Checker) checks() (Status, func(*Status) []check) {
	status := Status{Healthy: true}
	if c.Database != nil {
		status.Database = "unknown"
	}
	if c.Cache != nil {
		status.Cache = "unknown"
	}
	if c.Storage != nil {
		status.Storage = "unknown"
	}

	return status, func(s *Status) []check {
		var checks []check

		if c.Database != nil {
			checks = append(checks, check{&s.Database, func(ctx context.Context) error {
				// A counter that was never written is still a working database
				if _, err := c.Database.Get(ctx); err != nil && !errors.Is(err, database.ErrNotFound) {
					return err
				}
				return nil
			}})
		}

		if c.Cache != nil {
			checks = append(checks, check{&s.Cache, func(ctx context.Context) error {
				if _, err := c.Cache.Get(ctx, "healthcheck"); err != cache.ErrNotFound {
					return errors.New("unexpected cache result")
				}
				return nil
			}})
		}

		if c.Storage != nil {
			checks = append(checks, check{&s.Storage, func(ctx context.Context) error {
				_, err := c.Storage.Get(ctx, c.AssetKey)
				return err
			}})
		}

		return checks
	}
}

func (c *Checker) check(ctx context.Context, channel chan Status) {
	defer close(channel)

	status, checks := c.checks()
	for _, ch := range checks(&status) {
		if ctx.Err() != nil {
			return
		}

		if err := ch.run(ctx); err != nil {
			status.Healthy = false
			*ch.result = "unhealthy"
		} else {
			*ch.result = "healthy"
		}
	}

	channel <- status
}
