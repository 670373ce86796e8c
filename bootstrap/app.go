// Package bootstrap builds the stores, repositories and services selected by configuration.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ppe.GO/config"
	"ppe.GO/core/cache"
	"ppe.GO/model/repository/catalog"
	"ppe.GO/model/repository/directory"
	"ppe.GO/model/repository/ledger"
	"ppe.GO/service/entitlement"
	"ppe.GO/service/export"
	"ppe.GO/service/issuance"
)

// App is the wired application shared by the CLI, the HTTP server and cron jobs.
type App struct {
	Config   *config.Config
	Settings *config.Settings
	Log      *logrus.Logger

	Ledger    *ledger.LedgerRepository
	Directory *directory.DirectoryRepository
	Catalog   *catalog.CatalogRepository
	Gear      *entitlement.Service
	Engine    *issuance.Engine
	Exports   *export.Worker

	db    *gorm.DB
	redis *redis.Client
}

// New wires an App from cfg. The settings file named by cfg supplies workbook locations.
func New(cfg *config.Config) (*App, error) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Settings: settings, Log: config.GetLogger()}

	ledgerStore, directoryStore, err := app.peopleStores()
	if err != nil {
		return nil, err
	}
	catalogStore, err := app.catalogStore()
	if err != nil {
		return nil, err
	}

	app.Ledger = ledger.NewLedgerRepository(ledgerStore)
	app.Directory = directory.NewDirectoryRepository(directoryStore)
	app.Catalog = catalog.NewCatalogRepository(catalogStore, cache.GetInstance())
	app.Gear = entitlement.NewService(app.Ledger, app.Directory, app.Log)
	app.Exports = export.NewWorker(export.NewXLSXExporter(settings.Template, settings.OutputDir), app.Log)
	app.Engine = issuance.NewEngine(app.Catalog, app.Ledger, app.Directory, app.Exports, app.Log)

	app.Log.WithFields(logrus.Fields{
		"storage": cfg.StorageDriver,
		"catalog": cfg.CatalogDriver,
	}).Debug("application wired")
	return app, nil
}

func (a *App) peopleStores() (ledger.Store, directory.Store, error) {
	switch a.Config.StorageDriver {
	case config.DriverXLSX, "":
		return ledger.NewXLSXStore(a.Settings.LedgerStore), directory.NewXLSXStore(a.Settings.DirectoryStore), nil
	case config.DriverSQL:
		db, err := a.openDB()
		if err != nil {
			return nil, nil, err
		}
		ls, err := ledger.NewSQLStore(db)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate ledger: %w", err)
		}
		ds, err := directory.NewSQLStore(db)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate directory: %w", err)
		}
		return ls, ds, nil
	default:
		return nil, nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", a.Config.StorageDriver)
	}
}

func (a *App) catalogStore() (catalog.Store, error) {
	switch a.Config.CatalogDriver {
	case config.DriverXLSX, "":
		return catalog.NewXLSXStore(a.Settings.CatalogStore), nil
	case config.DriverSQL:
		db, err := a.openDB()
		if err != nil {
			return nil, err
		}
		return catalog.NewSQLStore(db)
	case config.DriverRedis:
		config.InitRedis()
		if config.RedisClient == nil {
			return nil, errors.New("CATALOG_DRIVER=redis requires REDIS_ADDR")
		}
		a.redis = config.RedisClient
		return catalog.NewRedisStore(a.redis, config.GetEnv("REDIS_CATALOG_KEY", catalog.DefaultRedisKey)), nil
	default:
		return nil, fmt.Errorf("unsupported CATALOG_DRIVER %q", a.Config.CatalogDriver)
	}
}

func (a *App) openDB() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := config.NewDB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	return db, nil
}

// Close waits for pending card exports and releases connections.
func (a *App) Close() {
	if a.Exports != nil {
		a.Exports.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
