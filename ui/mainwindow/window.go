// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"imageview/internal/app"
	viewimage "imageview/internal/image"
	"imageview/internal/version"
	"imageview/internal/view"
	"imageview/ui/canvas"
	"imageview/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

const (
	appTitle       = "Image Viewer"
	reloadDebounce = 200 * time.Millisecond
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	state   *app.State
	prefs   *prefs.Prefs
	view    *canvas.InteractiveView
	watcher *app.FileWatcher
	log     zerolog.Logger

	statusBar *widget.Label
	viewInfo  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, log zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   p,
		watcher: app.NewFileWatcher(reloadDebounce, log),
		log:     app.Component(log, "window"),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.SetOnClosed(mw.shutdown)
	mw.Resize(fyne.NewSize(900, 650))

	return mw
}

// View returns the interactive image view.
func (mw *MainWindow) View() *canvas.InteractiveView {
	return mw.view
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.view = canvas.NewInteractiveView()
	mw.view.SetLogger(mw.log)
	mw.view.SetBackground(app.CanvasBackground)
	mw.view.SetZoomDelta(mw.prefFloat(prefs.KeyZoomDelta, view.DefaultZoomDelta, 0, 1))
	mw.view.SetTranslateSpeed(mw.prefFloat(prefs.KeyTranslateSpeed, view.DefaultTranslateSpeed, 0, 2))

	mw.statusBar = widget.NewLabel("Ready")
	mw.viewInfo = widget.NewLabel(formatViewInfo(mw.view.State()))

	openBtn := widget.NewButtonWithIcon("Open Image…", theme.FolderOpenIcon(), mw.openImage)
	toolbar := container.NewHBox(openBtn)

	status := container.NewBorder(nil, nil, nil, mw.viewInfo, mw.statusBar)

	content := container.NewBorder(
		toolbar, // top
		status,  // bottom
		nil,     // left
		nil,     // right
		mw.view, // center
	)

	mw.SetContent(content)
}

// prefFloat reads a float preference, falling back when the stored value
// lies outside [lo, hi].
func (mw *MainWindow) prefFloat(key string, fallback, lo, hi float64) float64 {
	v := mw.prefs.FloatWithFallback(key, fallback)
	if v < lo || v > hi {
		mw.log.Warn().Str("key", key).Float64("value", v).Float64("default", fallback).Msg("preference out of range")
		return fallback
	}
	return v
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	quit := fyne.NewMenuItem("Quit", func() { mw.app.Quit() })
	quit.IsQuit = true

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image…", mw.openImage),
		fyne.NewMenuItemSeparator(),
		quit,
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.view.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.view.ZoomOut),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate Left", func() { mw.view.Rotate(-view.RotateStep) }),
		fyne.NewMenuItem("Rotate Right", func() { mw.view.Rotate(view.RotateStep) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset View", mw.view.ResetView),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventPictureChanged, func(data interface{}) {
		pic, ok := data.(*viewimage.Picture)
		if !ok || pic == nil {
			mw.view.SetImage(nil)
			mw.SetTitle(appTitle)
			return
		}
		mw.view.SetImage(pic.Image)
		mw.SetTitle(appTitle + " - " + pic.Name())
		mw.updateStatus(fmt.Sprintf("%s  %d×%d %s", pic.Name(), pic.Width(), pic.Height(), pic.Format))
		mw.watch(pic.Path)
	})

	mw.state.On(app.EventLoadFailed, func(data interface{}) {
		var loadErr app.LoadError
		if err, ok := data.(error); ok && errors.As(err, &loadErr) {
			mw.updateStatus(fmt.Sprintf("Could not open %s: %v", filepath.Base(loadErr.Path), loadErr.Err))
		}
	})

	mw.view.OnChange(func(s view.ViewState) {
		mw.viewInfo.SetText(formatViewInfo(s))
	})

	mw.watcher.OnChange(mw.reload)
}

// reload is called on the watcher goroutine; the load and picture swap run
// on the UI thread.
func (mw *MainWindow) reload(path string) {
	mw.log.Info().Str("path", path).Msg("file changed, reloading")
	fyne.Do(func() {
		_ = mw.state.LoadPicture(path)
	})
}

func formatViewInfo(s view.ViewState) string {
	return fmt.Sprintf("Zoom %.0f%%  Rotation %.0f°", s.Scale*100, s.Rotation)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// StatusText returns the status bar text.
func (mw *MainWindow) StatusText() string {
	return mw.statusBar.Text
}

// watch follows the shown file for live reload when enabled.
func (mw *MainWindow) watch(path string) {
	if path == "" || !mw.prefs.Bool(prefs.KeyWatchFile, true) {
		return
	}
	if abs, err := filepath.Abs(path); err == nil && abs == mw.watcher.Path() {
		return
	}
	if err := mw.watcher.Watch(path); err != nil {
		mw.log.Warn().Err(err).Str("path", path).Msg("live reload disabled")
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
}

// openImage asks for an image file and shows it. Cancelling leaves the
// current picture in place.
func (mw *MainWindow) openImage() {
	fd := dialog.NewFileOpen(mw.onFileChosen, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(viewimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onFileChosen handles the open dialog result. A nil reader means the
// dialog was cancelled.
func (mw *MainWindow) onFileChosen(reader fyne.URIReadCloser, err error) {
	if err != nil {
		mw.log.Warn().Err(err).Msg("open dialog failed")
		return
	}
	if reader == nil {
		return
	}
	reader.Close()
	_ = mw.OpenPath(reader.URI().Path())
}

// OpenPath loads the file at path into the view. On failure the current
// picture is kept and the reason is shown in the status bar.
func (mw *MainWindow) OpenPath(path string) error {
	if err := mw.state.LoadPicture(path); err != nil {
		return err
	}
	mw.saveLastDir(path)
	return nil
}

// shutdown stores view settings and stops the file watcher.
func (mw *MainWindow) shutdown() {
	mw.watcher.Stop()
	mw.prefs.SetFloat(prefs.KeyZoomDelta, mw.view.ZoomDelta())
	mw.prefs.SetFloat(prefs.KeyTranslateSpeed, mw.view.TranslateSpeed())
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.log.Error().Err(err).Str("path", mw.prefs.Path()).Msg("saving preferences")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Pan with the mouse or arrow keys, zoom with the wheel or +/-,\n"+
			"rotate with space and return.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
