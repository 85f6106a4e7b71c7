// Package network checks API reachability before an extraction and explains failures.
package network

import (
	"context"
	"time"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/config"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

const (
	quickProbeTimeout = 20 * time.Second
	quickProbeRetries = 1
)

// Diagnose runs a two-stage connectivity probe against the API: a quick probe with a
// short timeout, then a probe with the configured settings. Failures are logged with
// troubleshooting hints, never returned: extraction proceeds regardless and fails on
// its own terms.
func Diagnose(ctx context.Context, client *api.Client, cfg *config.Config) {
	console.Info("Testing API connectivity...")

	console.Infof("Performing quick connectivity test to %s...", client.Host())
	start := time.Now()
	if err := client.Ping(ctx, quickProbeTimeout, quickProbeRetries); err == nil {
		console.Info("Connection test successful (quick response)")
		console.Infof("  Server responded in %.2f seconds", time.Since(start).Seconds())
		return
	}

	console.Info("Quick test failed. Trying with full timeout settings...")
	console.Infof("  Timeout: %s", cfg.Timeout)
	console.Infof("  Max retries: %d", cfg.MaxRetries)

	start = time.Now()
	if err := client.Ping(ctx, cfg.Timeout, cfg.MaxRetries); err == nil {
		console.Info("Connection test successful with extended timeout")
		console.Infof("  Server responded in %.2f seconds", time.Since(start).Seconds())
		console.Info("  Network is functional but may be experiencing delays")
		return
	}

	console.Warn("Connection test failed")
	logDiagnostics(client, cfg)
}

func logDiagnostics(client *api.Client, cfg *config.Config) {
	console.Info("Diagnostic information:")
	console.Infof("  API domain: %s", client.Host())
	console.Infof("  Environment: %s", cfg.Environment)
	console.Infof("  Base URL: %s", cfg.BaseURL)
	console.Infof("  Timeout: %s", cfg.Timeout)
	console.Infof("  Max retries: %d", cfg.MaxRetries)
	console.Info("Possible issues:")
	console.Info("  1. VPN not connected to the corporate network")
	console.Info("  2. Server under maintenance or heavy load")
	console.Info("  3. Firewall or proxy blocking the connection")
	console.Info("  4. API key issued for the other environment")
	console.Info("Recommended actions:")
	console.Info("  1. Verify the VPN connection is active")
	console.Info("  2. Increase API_TIMEOUT in the .env file")
	console.Info("  3. Increase MAX_RETRIES in the .env file")
	console.Info("  4. Contact IT support if the problem persists")
}
