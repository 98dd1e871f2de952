// Package main hosts the porthole CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into the
// wait-then-follow workflow: resolving port identifiers to log files,
// waiting for files to appear, streaming appended lines, and inspecting
// discovered targets and past sessions. It centralizes configuration
// resolution and logger setup so subcommands focus on user experience.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
