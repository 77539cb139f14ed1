// Package debug provides the CLI commands that inspect SWD debug information.
//
// Commands load an SWD file through the model registry and print results in
// table, JSON or CSV form:
//   - inspect: version, file table and breakpoints
//   - tags: the raw decoded tag stream
//   - line: source line to bytecode offset
//   - offset: bytecode offset to source line and breakpoint
//   - break: add or remove breakpoints and list the result
package debug
