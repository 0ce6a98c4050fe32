package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"cloudpico-panel/internal/config"
	"cloudpico-panel/internal/db"
	"cloudpico-panel/internal/db/migrate"
	"cloudpico-panel/internal/logging"
	"cloudpico-panel/internal/provisioning"
)

var version = "dev"
var appName = "cloudpico-panelctl"

const usage = `usage: %s <command>
  migrate                               apply pending schema migrations
  set-credentials <ssid> [passphrase]   store the WiFi network to join
  show-credentials                      print the stored SSID
  erase-credentials                     forget the stored network
`

func main() {
	_ = godotenv.Load()
	os.Exit(realMain(os.Args, os.Stdout, os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before exit.
func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	slog.SetDefault(logging.New(cfg, version, appName))

	if len(args) < 2 {
		fmt.Fprintf(stderr, usage, args[0])
		return 2
	}

	conn, err := db.Open(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "db open: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	ctx := context.Background()
	if _, err := migrate.Run(ctx, conn, slog.Default()); err != nil {
		fmt.Fprintf(stderr, "migrate: %v\n", err)
		return 1
	}

	if err := run(ctx, stdout, provisioning.NewStore(conn), args[1:]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", args[1], err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, usage, args[0])
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("bad arguments")

// run executes one command against an already migrated store.
func run(ctx context.Context, out io.Writer, store *provisioning.Store, args []string) error {
	switch args[0] {
	case "migrate":
		fmt.Fprintln(out, "migrations applied")
		return nil

	case "set-credentials":
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		c := provisioning.Credentials{SSID: args[1]}
		if len(args) == 3 {
			c.Passphrase = args[2]
		}
		if err := store.Save(ctx, c); err != nil {
			return err
		}
		fmt.Fprintf(out, "credentials stored for %q\n", c.SSID)
		return nil

	case "show-credentials":
		c, err := store.Load(ctx)
		if errors.Is(err, provisioning.ErrNotProvisioned) {
			fmt.Fprintln(out, "not provisioned")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "ssid=%q updated_at=%s\n", c.SSID, c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
		return nil

	case "erase-credentials":
		if err := store.Erase(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "credentials erased")
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}
