// Package buildinfo carries version information stamped at build time.
package buildinfo

// Version is overridden via -ldflags at release build time.
var Version = "0.1.0-dev"

// ServiceName is the MCP implementation name advertised to clients.
const ServiceName = "condameta"
