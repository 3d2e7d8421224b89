// Package main provides the entry point for the image viewer.
package main

import (
	"os"

	"imageview/internal/app"
	"imageview/internal/version"
	"imageview/ui/mainwindow"
	"imageview/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.imageview"

func main() {
	log := app.LoggerFromEnv()
	log.Info().Str("version", version.Version).Msg("starting image viewer")

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appPrefs := prefs.Load()
	log.Debug().Str("path", appPrefs.Path()).Msg("preferences")

	appState := app.NewState(log)
	win := mainwindow.New(fyneApp, appState, appPrefs, log)

	// An image may be named on the command line; if it cannot be shown the
	// scene stays empty.
	if len(os.Args) > 1 {
		if err := win.OpenPath(os.Args[1]); err != nil {
			log.Warn().Err(err).Msg("initial image not shown")
		}
	}

	win.ShowAndRun()
}
