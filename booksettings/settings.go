package booksettings

import (
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/pixel-reader/epubcore/kvstore"
)

const (
	keyShowTitleBar     = "show_title_bar"
	keyShoulderKeymap   = "shoulder_keymap"
	keyColorTheme       = "color_theme"
	keyFontName         = "font_name"
	keyFontSize         = "font_size"
	keyProgressReporting = "progress_reporting"

	settingsFileName = "settings.cfg"
)

// Settings is the app-wide settings file.
type Settings struct {
	store *kvstore.Store
}

// OpenSettings loads (or initializes) the settings file under baseDir.
func OpenSettings(baseDir string, log *zap.Logger) *Settings {
	path := filepath.Join(baseDir, settingsFileName)
	return &Settings{store: kvstore.Load(path, log)}
}

// ShowTitleBar returns the show_title_bar setting and whether it was set.
func (s *Settings) ShowTitleBar() (bool, bool) {
	v, ok := s.store.Get(keyShowTitleBar)
	if !ok {
		return false, false
	}
	return v == "true", true
}

// SetShowTitleBar persists show_title_bar.
func (s *Settings) SetShowTitleBar(v bool) {
	if v {
		s.store.Set(keyShowTitleBar, "true")
	} else {
		s.store.Set(keyShowTitleBar, "false")
	}
}

// ShoulderKeymap returns the shoulder_keymap setting and whether it was set.
func (s *Settings) ShoulderKeymap() (string, bool) {
	return s.store.Get(keyShoulderKeymap)
}

// SetShoulderKeymap persists shoulder_keymap.
func (s *Settings) SetShoulderKeymap(v string) {
	s.store.Set(keyShoulderKeymap, v)
}

// ColorTheme returns the color_theme setting and whether it was set.
func (s *Settings) ColorTheme() (string, bool) {
	return s.store.Get(keyColorTheme)
}

// SetColorTheme persists color_theme.
func (s *Settings) SetColorTheme(v string) {
	s.store.Set(keyColorTheme, v)
}

// FontName returns the font_name setting and whether it was set.
func (s *Settings) FontName() (string, bool) {
	return s.store.Get(keyFontName)
}

// SetFontName persists font_name.
func (s *Settings) SetFontName(v string) {
	s.store.Set(keyFontName, v)
}

// FontSize returns the font_size setting and whether it was set and valid.
func (s *Settings) FontSize() (uint32, bool) {
	v, ok := s.store.Get(keyFontSize)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// SetFontSize persists font_size.
func (s *Settings) SetFontSize(v uint32) {
	s.store.Set(keyFontSize, strconv.FormatUint(uint64(v), 10))
}

// ProgressReportingSetting returns the progress_reporting setting and
// whether it was set.
func (s *Settings) ProgressReportingSetting() (ProgressReporting, bool) {
	v, ok := s.store.Get(keyProgressReporting)
	if !ok {
		return ProgressReportingOff, false
	}
	return DecodeProgressReporting(v), true
}

// SetProgressReporting persists progress_reporting.
func (s *Settings) SetProgressReporting(p ProgressReporting) {
	s.store.Set(keyProgressReporting, EncodeProgressReporting(p))
}

// Flush writes the settings file if it has unflushed changes.
func (s *Settings) Flush() error {
	return s.store.Flush()
}
