package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"signalhook/cmd/signals"
	"signalhook/cmd/webhookconfig"
	"signalhook/src/database"
	"signalhook/src/logging"
	"signalhook/src/repository"
	"signalhook/src/server"
	"signalhook/src/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

var errSQLRequired = errors.New("this command needs a SQL backend (STORE_DRIVER=postgres or sqlite)")

func main() {
	_ = godotenv.Load()
	logging.SetupLogger()

	app := cli.NewApp()
	app.Name = "signalhook"
	app.Usage = "TradingView webhook ingestion service"
	app.Version = Version

	app.Commands = []cli.Command{
		serveCMD,
		migrateCMD,
		configsCMD,
		signalsCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the webhook HTTP server",
		Action:      serveAction,
		Description: `Serve POST /receive-webhook/{configId} until SIGINT or SIGTERM`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "run schema and data migrations",
		Action:      migrateAction,
		Description: `Create the webhook tables and run pending data migrations`,
	}
	configsCMD = cli.Command{
		Name:  "configs",
		Usage: "manage webhook configurations",
		Subcommands: []cli.Command{
			{
				Name:   "create",
				Usage:  "register a new webhook configuration",
				Action: configsCreateAction,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "name", Usage: "display name"},
					cli.StringFlag{Name: "token", Usage: "security token alerts must send as passphrase"},
					cli.StringFlag{Name: "description", Usage: "optional description"},
					cli.StringFlag{Name: "base-url", Usage: "public ingestion prefix (default WEBHOOK_BASE_URL)"},
				},
			},
			{
				Name:   "list",
				Usage:  "list webhook configurations",
				Action: configsListAction,
			},
			{
				Name:   "rotate",
				Usage:  "replace the security token of a configuration",
				Action: configsRotateAction,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "id", Usage: "configuration id"},
					cli.StringFlag{Name: "token", Usage: "new security token"},
				},
			},
		},
	}
	signalsCMD = cli.Command{
		Name:  "signals",
		Usage: "inspect stored signals",
		Subcommands: []cli.Command{
			{
				Name:   "list",
				Usage:  "print the newest stored signals",
				Action: signalsListAction,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "config", Usage: "only signals of this configuration"},
					cli.IntFlag{Name: "limit", Usage: "maximum rows (default SIGNALS_LIST_LIMIT)"},
				},
			},
		},
	}
)

func serveAction(_ *cli.Context) error {
	logrus.WithField("cmd", "serve").Info("Starting webhook server")
	return server.Run(context.Background())
}

func migrateAction(_ *cli.Context) error {
	config := database.GetConfig()
	config.AutoMigrate = false

	stores, err := openSQLStores(config)
	if err != nil {
		return err
	}
	defer closeStores(stores)

	if err := database.Migrate(stores.DB); err != nil {
		logrus.WithError(err).Error("Migration failed")
		return err
	}
	logrus.WithField("cmd", "migrate").Info("Migrations applied")
	return nil
}

func configsCreateAction(c *cli.Context) error {
	name, token := c.String("name"), c.String("token")
	if name == "" || token == "" {
		return errors.New("--name and --token are required")
	}

	baseURL := c.String("base-url")
	if baseURL == "" {
		baseURL = webhookconfig.GetConfig().BaseURL
	}

	return withConfigManager(func(m *webhookconfig.Manager) error {
		_, err := m.Create(context.Background(), webhookconfig.CreateInput{
			Name:        name,
			Token:       token,
			Description: c.String("description"),
			BaseURL:     baseURL,
		})
		return err
	})
}

func configsListAction(_ *cli.Context) error {
	return withConfigManager(func(m *webhookconfig.Manager) error {
		return m.List(context.Background())
	})
}

func configsRotateAction(c *cli.Context) error {
	id, token := c.String("id"), c.String("token")
	if id == "" || token == "" {
		return errors.New("--id and --token are required")
	}

	return withConfigManager(func(m *webhookconfig.Manager) error {
		return m.Rotate(context.Background(), id, token)
	})
}

func signalsListAction(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		limit = signals.GetConfig().Limit
	}

	stores, err := openSQLStores(database.GetConfig())
	if err != nil {
		return err
	}
	defer closeStores(stores)

	lister := &signals.Lister{
		Log:  logrus.WithField("cmd", "signals"),
		Repo: repository.NewWebhookSignalRepository(stores.DB),
		Out:  os.Stdout,
	}
	return lister.Print(context.Background(), c.String("config"), limit)
}

func withConfigManager(fn func(m *webhookconfig.Manager) error) error {
	stores, err := openSQLStores(database.GetConfig())
	if err != nil {
		return err
	}
	defer closeStores(stores)

	return fn(&webhookconfig.Manager{
		Log:  logrus.WithField("cmd", "configs"),
		Repo: repository.NewWebhookConfigRepository(stores.DB),
		Out:  os.Stdout,
	})
}

func openSQLStores(config database.Config) (*store.Stores, error) {
	if !config.IsSQL() {
		return nil, errSQLRequired
	}
	stores, err := store.Open(context.Background(), config)
	if err != nil {
		logrus.WithError(err).Error("Failed to open store")
		return nil, err
	}
	return stores, nil
}

func closeStores(stores *store.Stores) {
	if err := stores.Close(); err != nil {
		logrus.WithError(err).Error("Failed to close store")
	}
}
