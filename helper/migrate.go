package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"hms/config"
	"hms/infras/postgres"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"

	defaultSourceURL = "file://migrations/postgres"
)

var errUnknownAction = errors.New("unknown migration action")

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	extra := url.Values{}
	extra.Set("x-migrations-table", config.DB.Postgres.MigrationTable)

	return newMigrate(defaultSourceURL, postgres.WriteDSN(*config, extra))
}

func newMigrate(sourceURL, databaseURL string) (*migrate.Migrate, error) {
	mig, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	return run(mig, action)
}

// RunnerWithURL applies migrations from sourceURL (e.g. file://../migrations/postgres)
// against an explicit database URL.
func RunnerWithURL(sourceURL, databaseURL, action string) error {
	mig, err := newMigrate(sourceURL, databaseURL)
	if err != nil {
		return err
	}

	defer mig.Close()

	return run(mig, action)
}

func run(mig *migrate.Migrate, action string) error {
	switch action {
	case ActionUp:
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDown:
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	case ActionStepUp:
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDrop:
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	}

	return fmt.Errorf("%w: %s", errUnknownAction, action)
}

// Up applies every pending migration.
func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
