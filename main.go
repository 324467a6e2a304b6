package main

import (
	"context"
	"log"
	"os"

	"catalogclean/app"
	"catalogclean/domain/run"
	"catalogclean/internal/config"
	"catalogclean/internal/container"

	"github.com/joho/godotenv"
)

// Exit codes
const (
	exitOK           = 0
	exitFailed       = 1
	exitExportFailed = 2
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return exitFailed
	}

	c, err := container.New(appConfig)
	if err != nil {
		log.Printf("[ERROR] failed to create container: %v", err)
		return exitFailed
	}

	ctx := context.Background()
	defer c.Shutdown(ctx)

	if appConfig.Database.Enabled() {
		if err := c.AttachDatabase(ctx); err != nil {
			c.Logger.Warn("run ledger disabled: %v", err)
		}
	}

	summary, err := c.Pipeline.Run(ctx, app.PipelineRequest{
		InputPath:  appConfig.Paths.InputFile,
		OutputPath: appConfig.Paths.OutputFile,
	})
	return exitCode(summary, err, appConfig.Export.Strict)
}

// exitCode maps the outcome of a run to the process status. Export
// failures only fail the process in strict mode.
func exitCode(summary *run.Summary, err error, strict bool) int {
	if err != nil {
		return exitFailed
	}
	if summary.Status == run.StatusExportFailed && strict {
		return exitExportFailed
	}
	return exitOK
}
