package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zynxdata/flowmerge/internal/consolidate"
	"github.com/zynxdata/flowmerge/internal/pipeline"
)

// Config holds database configuration.
type Config struct {
	// Path to the SQLite database file.
	Path string
	// MaxConns caps open connections (default 4).
	MaxConns int
	// LogLevel for GORM (logger.Silent for production).
	LogLevel logger.LogLevel
}

// Store records pipeline runs in SQLite. WAL mode is enabled so readers
// never block a run being written.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// New opens the database, runs migrations, and enables WAL mode.
func New(cfg Config) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger:      logger.Default.LogMode(logLevel),
		PrepareStmt: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 4
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("set synchronous mode: %w", err)
	}

	return &Store{db: db, sqlDB: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_run_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Run{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&ClusterRecord{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&ConsolidatedRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("runs", "clusters", "consolidated_workflows")
			},
		},
	})
	return m.Migrate()
}

// SaveRun persists one pipeline result in a single transaction.
func (s *Store) SaveRun(ctx context.Context, result *pipeline.Result) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := Run{
			RunID:             result.RunID,
			Strategy:          result.Strategy,
			WorkflowCount:     result.Stats.WorkflowCount,
			EnrichedCount:     result.Stats.EnrichedCount,
			ClusterCount:      result.Stats.ClusterCount,
			ConsolidatedCount: result.Stats.ConsolidatedCount,
			MeanCohesion:      result.Stats.MeanCohesion,
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("save run: %w", err)
		}

		for _, c := range result.Clusters {
			memberIDs := make([]string, len(c.Members))
			for i, m := range c.Members {
				memberIDs[i] = m.ID
			}
			rec := ClusterRecord{
				RunID:       result.RunID,
				ClusterID:   c.ID,
				Label:       c.Label,
				Cohesion:    c.Cohesion,
				MemberCount: len(c.Members),
				MemberIDs:   memberIDs,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("save cluster %s: %w", c.ID, err)
			}
		}

		for _, cw := range result.Consolidated {
			doc, err := consolidate.RenderYAML(cw)
			if err != nil {
				return err
			}
			rec := ConsolidatedRecord{
				RunID:     result.RunID,
				ClusterID: cw.SourceClusterID,
				Name:      cw.Name,
				Document:  string(doc),
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("save consolidated workflow %s: %w", cw.SourceClusterID, err)
			}
		}
		return nil
	})
}

// RecentRuns returns the newest runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("created_at_epoch DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ClustersForRun returns the persisted clusters of one run.
func (s *Store) ClustersForRun(ctx context.Context, runID string) ([]ClusterRecord, error) {
	var clusters []ClusterRecord
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("cluster_id").
		Find(&clusters).Error
	if err != nil {
		return nil, fmt.Errorf("list clusters for run %s: %w", runID, err)
	}
	return clusters, nil
}

// ConsolidatedForRun returns the persisted consolidated workflows of a run.
func (s *Store) ConsolidatedForRun(ctx context.Context, runID string) ([]ConsolidatedRecord, error) {
	var records []ConsolidatedRecord
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("cluster_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list consolidated workflows for run %s: %w", runID, err)
	}
	return records, nil
}
