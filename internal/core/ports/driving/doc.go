// Package driving declares what the CLI, the HTTP API and the MCP server
// may ask of the core. internal/core/services implements every interface.
package driving
