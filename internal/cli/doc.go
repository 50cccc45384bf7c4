// Package cli turns the gridstate command line into an app.Config.
//
// The workspace path comes from -config, its -c shorthand or the first
// positional argument. -runs sets how many times the compiled workspace is
// called and -seed overrides the seed of its random streams. Invalid flags
// come back as an ExitError carrying the exit code; -help or a missing path
// prints usage and asks the caller to exit cleanly.
package cli
