// Package logtail reads the tail of the storefront log file and renders
// its zap JSON records as readable lines for `nurye logs`.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) regardless of file size. A missing file is not an error.
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//	for _, l := range logtail.FormatLines(lines, zapcore.InfoLevel, true) {
//		fmt.Println(l)
//	}
package logtail
