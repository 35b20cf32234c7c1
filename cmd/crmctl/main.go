// Command crmctl runs maintenance and reporting tasks against the CRM store
// without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/crmlite/crm/internal/app"
	"github.com/crmlite/crm/internal/infrastructure/config"
	"github.com/crmlite/crm/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(openApp)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openApp builds the application from the environment. Logs go to stderr so
// stdout stays machine readable.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Output:  os.Stderr,
		Service: "crmctl",
	})
	return app.New(ctx, cfg, log)
}
