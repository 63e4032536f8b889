package booksettings

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestSettingsDefaultsAbsent(t *testing.T) {
	s := OpenSettings(t.TempDir(), zaptest.NewLogger(t))

	if _, ok := s.ShowTitleBar(); ok {
		t.Error("expected show_title_bar absent by default")
	}
	if _, ok := s.FontSize(); ok {
		t.Error("expected font_size absent by default")
	}
	if _, ok := s.ProgressReportingSetting(); ok {
		t.Error("expected progress_reporting absent by default")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := OpenSettings(dir, zaptest.NewLogger(t))

	s.SetShowTitleBar(true)
	s.SetShoulderKeymap("swap")
	s.SetColorTheme("dark")
	s.SetFontName("Literata")
	s.SetFontSize(18)
	s.SetProgressReporting(ProgressReportingBook)

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded := OpenSettings(dir, zaptest.NewLogger(t))

	if v, ok := reloaded.ShowTitleBar(); !ok || !v {
		t.Errorf("ShowTitleBar = %v, %v, want true, true", v, ok)
	}
	if v, ok := reloaded.ShoulderKeymap(); !ok || v != "swap" {
		t.Errorf("ShoulderKeymap = %q, %v, want swap, true", v, ok)
	}
	if v, ok := reloaded.ColorTheme(); !ok || v != "dark" {
		t.Errorf("ColorTheme = %q, %v, want dark, true", v, ok)
	}
	if v, ok := reloaded.FontName(); !ok || v != "Literata" {
		t.Errorf("FontName = %q, %v, want Literata, true", v, ok)
	}
	if v, ok := reloaded.FontSize(); !ok || v != 18 {
		t.Errorf("FontSize = %d, %v, want 18, true", v, ok)
	}
	if v, ok := reloaded.ProgressReportingSetting(); !ok || v != ProgressReportingBook {
		t.Errorf("ProgressReportingSetting = %v, %v, want ProgressReportingBook, true", v, ok)
	}
}

func TestProgressReportingEncodeDecodeRoundTrip(t *testing.T) {
	for _, p := range []ProgressReporting{ProgressReportingOff, ProgressReportingChapter, ProgressReportingBook} {
		if got := DecodeProgressReporting(EncodeProgressReporting(p)); got != p {
			t.Errorf("round trip %v -> %q -> %v", p, EncodeProgressReporting(p), got)
		}
	}
}

func TestDecodeProgressReportingUnknownDefaultsToOff(t *testing.T) {
	if got := DecodeProgressReporting("bogus"); got != ProgressReportingOff {
		t.Errorf("DecodeProgressReporting(bogus) = %v, want ProgressReportingOff", got)
	}
}
