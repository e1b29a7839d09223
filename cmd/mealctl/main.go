// Command mealctl is a terminal attendance board for mess admins.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"messhall/internal/adapters/attendanceapi"
	"messhall/internal/adapters/tui"
	"messhall/internal/application/toggle"
	"messhall/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mealctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	// The board owns the terminal, so logs go to a file.
	logFile, err := tea.LogToFile("mealctl.log", "")
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := config.NewLogger(cfg.Logging(), logFile)
	slog.SetDefault(logger)

	client := attendanceapi.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	err = client.Login(ctx, cfg.Username, cfg.Password)
	cancel()
	if err != nil {
		return err
	}

	relay := &tui.Relay{}
	dates := &tui.DateField{}
	ctl := toggle.New(toggle.Config{
		Updater:        client,
		Notifier:       relay,
		Dates:          dates,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	p := tea.NewProgram(tui.NewModel(tui.Config{
		Sheets:     client,
		Controller: ctl,
		Relay:      relay,
		Dates:      dates,
		BaseURL:    client.BaseURL(),
		ReportType: cfg.ReportType,
	}), tea.WithAltScreen())
	relay.Attach(p)

	_, err = p.Run()
	ctl.Wait()
	return err
}
