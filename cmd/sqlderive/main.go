// Command sqlderive loads record schemas and turns them into SQL tables or
// typed Go code.
//
//	sqlderive --schemas ./schema gen --target ./models
//	sqlderive --driver pgx --dsn "$DATABASE_URL" apply
//	SQLDERIVE_DSN=app.db sqlderive verify
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command given by args and returns the exit code:
// 0 on success, 1 on failure and 2 on a usage error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := loadConfig(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(rest) != 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", rest[0], usage)
		return 2
	}
	log, err := cfg.logger(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	e := &env{cfg: cfg, log: log, stdout: stdout}
	if err := cmd(ctx, e); err != nil {
		log.ErrorContext(ctx, rest[0]+" failed", "error", err)
		return 1
	}
	return 0
}
