package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
)

type tool struct {
	client *db.Client
	cfg    *config.Config
	log    *logger.Logger
}

func newTool(client *db.Client, cfg *config.Config, log *logger.Logger) *tool {
	return &tool{client: client, cfg: cfg, log: log}
}

// schema prints every table with its column names and types.
func (t *tool) schema(ctx context.Context, w io.Writer) error {
	migrator := t.client.DB().WithContext(ctx).Migrator()

	tables := []struct {
		name  string
		model any
	}{
		{"users", &models.User{}},
		{"products", &models.Product{}},
		{"orders", &models.Order{}},
		{"order_lines", &models.OrderLine{}},
		{"assistant_logs", &models.AssistantLog{}},
	}
	for _, table := range tables {
		fmt.Fprintf(w, "table %s\n", table.name)

		columns, err := migrator.ColumnTypes(table.model)
		if err != nil {
			return fmt.Errorf("columns of %s: %w", table.name, err)
		}
		for _, column := range columns {
			fmt.Fprintf(w, "  %-20s %s\n", column.Name(), column.DatabaseTypeName())
		}
	}
	return nil
}

type exportDump struct {
	Users         []models.User         `json:"users"`
	Products      []models.Product      `json:"products"`
	Orders        []models.Order        `json:"orders"`
	OrderLines    []models.OrderLine    `json:"order_lines"`
	AssistantLogs []models.AssistantLog `json:"assistant_logs"`
}

// export writes every table as JSON, to stdout when no path is given.
func (t *tool) export(ctx context.Context, path string) error {
	conn := t.client.DB().WithContext(ctx)

	var dump exportDump
	if err := conn.Order("id").Find(&dump.Users).Error; err != nil {
		return fmt.Errorf("export users: %w", err)
	}
	if err := conn.Order("id").Find(&dump.Products).Error; err != nil {
		return fmt.Errorf("export products: %w", err)
	}
	if err := conn.Order("id").Find(&dump.Orders).Error; err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	if err := conn.Order("id").Find(&dump.OrderLines).Error; err != nil {
		return fmt.Errorf("export order lines: %w", err)
	}
	if err := conn.Order("id").Find(&dump.AssistantLogs).Error; err != nil {
		return fmt.Errorf("export assistant logs: %w", err)
	}

	out := io.Writer(os.Stdout)
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

// check recomputes every order total from its lines and reports all
// disagreements at once.
func (t *tool) check(ctx context.Context, w io.Writer) error {
	conn := t.client.DB().WithContext(ctx)

	var orders []models.Order
	if err := conn.Order("id").Find(&orders).Error; err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	var violations error
	for _, order := range orders {
		var total int64
		err := conn.Model(&models.OrderLine{}).
			Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(qty * unit_price_cents), 0)").
			Scan(&total).Error
		if err != nil {
			return fmt.Errorf("recompute order %d: %w", order.ID, err)
		}
		if total != order.TotalCents {
			violations = multierr.Append(violations,
				fmt.Errorf("order %d: stored total %d, recomputed %d", order.ID, order.TotalCents, total))
		}
	}

	if violations != nil {
		return violations
	}
	fmt.Fprintf(w, "checked %d orders, all totals consistent\n", len(orders))
	return nil
}

func (t *tool) seed(ctx context.Context, w io.Writer) error {
	added, err := catalog.NewRepository(t.client).SeedDemo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "seeded %d demo products\n", added)
	return nil
}

// backup copies the sqlite database file. Postgres deployments are expected
// to use pg_dump instead.
func (t *tool) backup(ctx context.Context, dest string, w io.Writer) error {
	if t.cfg.DB.Driver != config.DriverSQLite {
		return fmt.Errorf("backup supports sqlite only; use pg_dump for postgres")
	}

	source := sqliteFilePath(t.cfg.DB.DSN)
	if source == "" {
		return fmt.Errorf("database %q is not a file-backed sqlite database", t.cfg.DB.DSN)
	}
	if dest == "" {
		dest = source + ".bak"
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	fmt.Fprintf(w, "backed up %d bytes to %s\n", written, dest)
	return nil
}

// sqliteFilePath strips sqlite DSN decorations down to the on-disk path.
func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i != -1 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.HasPrefix(path, ":") {
		return ""
	}
	return path
}
