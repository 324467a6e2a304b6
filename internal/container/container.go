package container

import (
	"context"
	"fmt"

	"catalogclean/adapters/datareadiness/coercer"
	"catalogclean/adapters/excel"
	"catalogclean/adapters/postgres"
	"catalogclean/app"
	"catalogclean/internal"
	"catalogclean/internal/cleaning"
	"catalogclean/internal/config"
	"catalogclean/internal/errors"
	"catalogclean/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Pipeline components
	Coercer  *coercer.TypeCoercer
	Reporter ports.ProgressReporter
	Loader   *excel.DataReader
	Cleaner  *cleaning.Cleaner
	Writer   *excel.Writer

	// Run ledger, nil until InitWithDatabase
	RunRepo ports.RunRepository

	Pipeline *app.PipelineService
}

// New creates a container for cfg without a database
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, ok := internal.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown LOG_LEVEL %q", cfg.LogLevel))
	}
	logger := internal.NewLogger(level)

	c := &Container{
		Config: cfg,
		Logger: logger,
	}
	c.initPipeline()
	return c, nil
}

// ExportConfig maps the application export settings onto the writer's
func ExportConfig(cfg *config.Config) excel.ExportConfig {
	export := excel.DefaultExportConfig()
	export.SheetName = cfg.Export.SheetName
	export.SampleSheetName = cfg.Export.SampleSheetName
	export.SampleRows = cfg.Export.SampleRows
	export.DateColumn = cleaning.DateColumn
	export.DateColumnWidth = cfg.Export.DateColumnWidth
	return export
}

func (c *Container) initPipeline() {
	c.Coercer = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	c.Reporter = app.NewLogReporter(c.Logger)
	c.Loader = excel.NewDataReader(c.Coercer, c.Logger, c.Reporter)
	c.Cleaner = cleaning.NewCleaner(c.Coercer, c.Reporter)
	c.Writer = excel.NewWriter(ExportConfig(c.Config), c.Coercer, c.Logger, c.Reporter)
	c.Pipeline = app.NewPipelineService(c.Loader, c.Cleaner, c.Writer, c.RunRepo, c.Logger)
}

// Connect opens the configured ledger database
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

// AttachDatabase connects to the configured ledger database and attaches it.
// The connection is closed again when it cannot be attached.
func (c *Container) AttachDatabase(ctx context.Context) error {
	db, err := Connect(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	return c.attach(db)
}

func (c *Container) attach(db *sqlx.DB) error {
	if err := c.InitWithDatabase(db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase attaches the run ledger and rebuilds the pipeline so it
// records runs.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.Ping(); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	c.DB = db
	c.RunRepo = postgres.NewRunRepository(db)
	c.Pipeline = app.NewPipelineService(c.Loader, c.Cleaner, c.Writer, c.RunRepo, c.Logger)

	c.Logger.Debug("Container initialized with run ledger")
	return nil
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
