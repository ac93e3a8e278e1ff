package config

import (
	"os"
	"strings"
)

// OverheadSaveLockDisabled turns off the redis lock that serializes
// concurrent saves of the same user's overhead record. The upsert itself is
// transactional; the lock only prevents interleaved last-write-wins surprises
// when two tabs save at once.
//
// Set via env:
// - OVERHEAD_SAVE_LOCK_DISABLED=true
func OverheadSaveLockDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("OVERHEAD_SAVE_LOCK_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ExcelExportDisabled removes the xlsx export endpoints.
//
// Set via env:
// - EXCEL_EXPORT_DISABLED=true
func ExcelExportDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("EXCEL_EXPORT_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
