// Package version holds the binary identity reported by the MCP
// initialize handshake.
package version

// BinaryName is the server name advertised in the MCP initialize response.
const BinaryName = "review-bridge-mcp-server"

// Version is overridden at build time via -ldflags.
var Version = "dev"

// ProtocolVersion is the MCP protocol version this server speaks.
const ProtocolVersion = "2024-11-05"
