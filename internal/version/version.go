// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Headless scene server, position cache, Prometheus metrics
// 0.2.0 - Perspective rasterizer with orbit controls and point lighting
// 0.1.0 - Initial release: date-driven planet positions, info panel
