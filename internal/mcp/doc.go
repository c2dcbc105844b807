// Package mcp exposes query engine operations as Model Context Protocol tools.
//
// ToolServer is a small registry around the official MCP SDK: tools can be
// invoked in-process through CallTool, or served to MCP clients over any
// transport (typically stdio) through Serve.
//
// RegisterEngineTools installs three tools:
//   - get_dmmf: {"datamodel": "..."} → document model JSON
//   - get_config: {"datamodel": "..."} → configuration metadata JSON
//   - dmmf_to_dml: {"dmmf": {...}, "config": {...}} → schema text
package mcp
