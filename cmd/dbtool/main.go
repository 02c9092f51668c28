// dbtool is the maintenance CLI: schema inspection, JSON exports, ledger
// integrity checks, demo seeding, and sqlite backups.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "dbtool"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "", "command: schema|export|check|seed|backup")
	out := flag.String("out", "", "output path (export writes JSON here, backup copies the database here)")
	flag.Parse()

	if *cmd == "" {
		fmt.Fprintln(os.Stderr, "missing -cmd; expected schema|export|check|seed|backup")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dbtool",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	tool := newTool(dbClient, cfg, logg)

	switch *cmd {
	case "schema":
		err = tool.schema(ctx, os.Stdout)
	case "export":
		err = tool.export(ctx, *out)
	case "check":
		err = tool.check(ctx, os.Stdout)
	case "seed":
		err = tool.seed(ctx, os.Stdout)
	case "backup":
		err = tool.backup(ctx, *out, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
	if err != nil {
		logg.Error(ctx, "dbtool command failed", err)
		os.Exit(1)
	}
}
