//go:build windows

package main

// watchSignals is a no-op on Windows: SIGHUP and SIGUSR1 do not exist
// there. Use the config file plus a restart to change settings.
func watchSignals(*app) {}
