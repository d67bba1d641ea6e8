package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath      string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	ServerAddr      string
	MetricsAddr     string
	WebhookURL      string
	DefaultCurrency string
	AppDataDir      string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	webhook := data.WebhookURL
	if webhook == "" {
		webhook = "(notifications disabled)"
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Server Address", data.ServerAddr},
		{"Metrics Address", data.MetricsAddr},
		{"Webhook URL", webhook},
		{"Default Currency", data.DefaultCurrency},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
