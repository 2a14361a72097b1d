// Package daemon holds process-level helpers shared by the commands.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/David-Antunes/netsim/internal"
)

// CancelContext returns a context that is canceled on SIGINT or SIGTERM.
func CancelContext(ctx context.Context) context.Context {
	ctxWithCancel, cancel := context.WithCancel(ctx)

	go func() {
		defer cancel()

		term := make(chan os.Signal, 1)
		signal.Notify(term, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(term)

		select {
		case <-term:
		case <-ctx.Done():
		}
	}()

	return ctxWithCancel
}

// PrintSettings logs every setting in key order at debug level. Keys listed
// in secret are masked.
func PrintSettings(logger internal.Logger, settings map[string]interface{}, secret ...string) {
	masked := make(map[string]bool, len(secret))
	for _, key := range secret {
		masked[key] = true
	}

	sortedList := make([]string, 0, len(settings))
	for id := range settings {
		sortedList = append(sortedList, id)
	}
	sort.Strings(sortedList)

	for _, id := range sortedList {
		if masked[id] && settings[id] != "" {
			logger.Debugf("%s ****", id)
			continue
		}
		logger.Debugf("%s %v", id, settings[id])
	}
}
