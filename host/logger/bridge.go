package logger

import (
	"context"
	"strings"

	"gbatime/core"
)

// DebugWriter returns a core.DebugWriter that logs each firmware debug line
// at debug level. A leading "[TAG]" becomes the "source" field.
func DebugWriter(ctx context.Context) core.DebugWriter {
	l := FromContext(ctx)
	return func(line string) {
		source := "core"
		if strings.HasPrefix(line, "[") {
			if end := strings.IndexByte(line, ']'); end > 0 {
				source = strings.ToLower(line[1:end])
				line = strings.TrimSpace(line[end+1:])
			}
		}
		l.Debugw(line, "source", source)
	}
}
