package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/views"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: application,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	configPath := r.app.Config.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbPath := r.app.Config.Database.Path
	if dbPath == "" {
		appDir := getAppDataDirOrPanic()
		dbPath = filepath.Join(appDir, "bankd.db")
	}

	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		DBPath:          dbPath,
		DBExists:        dbExists,
		ServerAddr:      r.app.Config.Server.Addr,
		MetricsAddr:     r.app.Config.Metrics.Addr,
		WebhookURL:      r.app.Config.Notifier.WebhookURL,
		DefaultCurrency: r.app.Config.Defaults.Currency,
		AppDataDir:      getAppDataDirOrPanic(),
	}

	if err := views.RenderSystemInfo(items); err != nil {
		return err
	}
	return nil
}

func getAppDataDirOrPanic() string {
	dir, err := getAppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
