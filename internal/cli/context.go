// Package cli provides the command-line interface for the scout application.
package cli

import (
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/app"
)

// Global reference shared across commands; set once in PersistentPreRunE
var globalApp *app.Application

// SetApp stores the Application for commands to access
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the shared Application
func GetApp() *app.Application {
	return globalApp
}
