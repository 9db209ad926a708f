//go:build windows

package audio

// NewSystemEndpoint returns nil on Windows: endpoint volume control needs
// a Core Audio binding, which plugs in through the Endpoint interface. A
// nil endpoint downgrades MuteGuard to a no-op.
func NewSystemEndpoint() Endpoint {
	return nil
}
