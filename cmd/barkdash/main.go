// Package main is the entry point for the Bark Dashboard TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkgg/barkdash/internal/app"
	"github.com/barkgg/barkdash/internal/config"
	"github.com/barkgg/barkdash/internal/services"
	"github.com/barkgg/barkdash/internal/ui/tabs/dashboard"
	"github.com/barkgg/barkdash/internal/ui/tabs/hourly"
	"github.com/barkgg/barkdash/internal/ui/tabs/info"
	"github.com/barkgg/barkdash/internal/ui/tabs/keys"
	"github.com/barkgg/barkdash/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This starts the background services: key storage and usage polling
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and commands
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	commands := model.GetCommands()
	tabs := []app.Tab{
		dashboard.New(state, commands), // Tab 0: Dashboard - usage and credits overview
		hourly.New(state),              // Tab 1: Hourly - per-day hourly breakdown
		keys.New(state, commands),      // Tab 2: Keys - API key management
		info.New(state, cfg),           // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 7. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 8. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Bark Dashboard - API usage and credit monitor

Usage:
  barkdash [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, Hourly, Keys, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  w               Cycle the chart window (7/14/30/90 days)
  r               Refresh usage data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  BARK_API_URL            Usage API base URL
  KEYS_PATH               API keys JSON file path
  DATABASE_PATH           SQLite snapshot cache path
  USAGE_REFRESH_INTERVAL  Usage polling interval (default: 60s)
  USAGE_RANGE_DAYS        Default chart window in days (default: 14)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/barkdash/.env
  - ~/.barkdash/.env

For more information, visit: https://github.com/barkgg/barkdash`)
}
