package log

import (
	stdlog "log"
)

// MustInit opens <app>.db under ~/.rc5-go or exits.
func MustInit(app string) {
	if err := Init(app + ".db"); err != nil {
		stdlog.Fatalf("FATAL: failed to initialize logger: %v", err)
	}
}
