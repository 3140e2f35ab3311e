// Package main hosts the inkwell CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the import,
// export, and inspection pipelines in the internal packages. It owns
// configuration resolution, structured logging setup, and summary
// rendering so subcommands stay declarative; conversion logic belongs in
// the internal packages, not here.
package main
