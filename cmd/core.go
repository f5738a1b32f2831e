package cmd

import (
	"context"
	"net/url"
	"path/filepath"
	"time"

	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/pkg/database"
	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// registry backends
const (
	backendBolt   = "bolt"
	backendBadger = "badger"
	backendMemory = "memory"
)

// openStore opens the device store selected by the config
func openStore() (device.Store, error) {
	backend := viper.GetString("registry.backend")
	if backend == backendMemory {
		return device.NewMemoryStore(), nil
	}

	path := viper.GetString("registry.path")
	if path == "" {
		dir, err := util.DataDir()
		if err != nil {
			return nil, err
		}

		name := "devices.db"
		if backend == backendBadger {
			name = "devices.badger"
		}

		path = filepath.Join(dir, name)
	}

	path, err := util.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	if err = util.CreateDirectoryIfNotExists(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(device.ErrStorageUnavailable, err.Error())
	}

	switch backend {
	case backendBolt:
		return device.OpenBoltStore(path)
	case backendBadger:
		return device.OpenBadgerStore(path)
	default:
		return nil, errors.Errorf("unknown registry backend %q", backend)
	}
}

// newCore builds and initializes the core from the config
func newCore(ctx context.Context) (*core.Core, *zap.Logger, error) {
	logger, err := util.DefaultLogger(viper.GetBool("log.debug"), viper.GetString("log.dir"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize logger")
	}

	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	// releasing the store unless the core took it over
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	r, err := device.NewRegistry(s)
	if err != nil {
		return nil, nil, err
	}

	if err = r.SetLogger(logger); err != nil {
		return nil, nil, err
	}

	if viper.GetBool("registry.cache") {
		dc, err := device.NewDefaultCache(10 * time.Minute)
		if err != nil {
			return nil, nil, err
		}

		r.SetCache(dc)
	}

	c, err := core.New(r)
	if err != nil {
		return nil, nil, err
	}

	if err = c.SetLogger(logger); err != nil {
		return nil, nil, err
	}

	endpoint := viper.GetString("feed.endpoint")
	if u, perr := url.Parse(endpoint); perr != nil || u.Host == "" {
		return nil, nil, errors.Errorf("invalid feed endpoint %q", endpoint)
	}

	feed := tracking.NewClient(endpoint)
	feed.SetTimeout(viper.GetDuration("feed.timeout"))

	if err = feed.SetLogger(logger); err != nil {
		return nil, nil, err
	}

	if err = c.SetFeed(feed); err != nil {
		return nil, nil, err
	}

	if err = c.Init(ctx); err != nil {
		return nil, nil, err
	}

	ok = true

	return c, logger, nil
}

// openTrackingStore connects to the tracking database selected by the config,
// the returned func releases the connection
func openTrackingStore(ctx context.Context, logger *zap.Logger) (tracking.Store, func(), error) {
	driver := viper.GetString("database.driver")
	if err := database.CheckDriver(driver); err != nil {
		return nil, nil, err
	}

	dsn := viper.GetString("database.dsn")

	switch driver {
	case database.DriverSQLite:
		db, err := database.SQLite(dsn)
		if err != nil {
			return nil, nil, err
		}

		s, err := tracking.NewSQLStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}

		if err = s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		return s, func() { db.Close() }, nil
	default:
		pool, err := database.PostgreSQL(ctx, dsn, logger)
		if err != nil {
			return nil, nil, err
		}

		s, err := tracking.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return s, pool.Close, nil
	}
}
