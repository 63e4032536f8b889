package booksettings

// ProgressReporting selects how reading progress is surfaced to the UI
// layer, adapted from pixel-reader's ProgressReporting enum
// (settings_store.cpp's encode_progress_reporting/decode_progress_reporting).
type ProgressReporting int

const (
	// ProgressReportingOff disables progress display entirely.
	ProgressReportingOff ProgressReporting = iota
	// ProgressReportingChapter reports position within the current TOC item.
	ProgressReportingChapter
	// ProgressReportingBook reports position across the whole book.
	ProgressReportingBook
)

// EncodeProgressReporting renders p as its on-disk string form.
func EncodeProgressReporting(p ProgressReporting) string {
	switch p {
	case ProgressReportingOff:
		return "off"
	case ProgressReportingChapter:
		return "chapter"
	case ProgressReportingBook:
		return "book"
	default:
		return "off"
	}
}

// DecodeProgressReporting parses the on-disk string form, defaulting to
// ProgressReportingOff for anything unrecognized.
func DecodeProgressReporting(s string) ProgressReporting {
	switch s {
	case "chapter":
		return ProgressReportingChapter
	case "book":
		return ProgressReportingBook
	default:
		return ProgressReportingOff
	}
}
