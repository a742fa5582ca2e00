package main

import (
	"context"
	"os"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cmd := &cli.Command{
		Name:   "storefront",
		Usage:  "e-commerce REST backend",
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API",
				Action: runServe,
			},
			{
				Name:   "ensure-indexes",
				Usage:  "Create MongoDB indexes and exit",
				Action: runEnsureIndexes,
			},
			{
				Name:  "promote-admin",
				Usage: "Grant the admin role to an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "email of the user to promote", Required: true},
				},
				Action: runPromoteAdmin,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		zap.L().Fatal("command failed", zap.Error(err))
	}
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Env)
	return cfg, nil
}

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	return a.serve(ctx)
}

func runEnsureIndexes(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	if err := st.ensureIndexes(ctx); err != nil {
		return err
	}
	zap.L().Info("indexes ensured", zap.String("db", cfg.MongoDB))
	return nil
}

func runPromoteAdmin(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	email := cmd.String("email")
	if err := st.auth(nil).PromoteAdmin(ctx, email); err != nil {
		return err
	}
	zap.L().Info("user promoted to admin", zap.String("email", email))
	return nil
}
