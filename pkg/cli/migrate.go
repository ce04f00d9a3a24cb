package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/BrianJenney/brian-clone/pkg/cli/config"
	"github.com/BrianJenney/brian-clone/pkg/repository/postgres"
	"github.com/BrianJenney/brian-clone/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var storeCfg config.Store

	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply semantic store schema migrations",
		Flags: storeCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			dsn := storeCfg.DSN()
			if dsn == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "store DSN is required")
			}

			if err := postgres.Migrate(dsn); err != nil {
				return goerr.Wrap(err, "migration failed")
			}

			logging.Default().Info("migrations applied")
			return nil
		},
	}
}
