// Package app contains the core application logic. It turns a loaded
// workspace into shared values, random streams and a compiled function, and
// runs that function, decoupled from any specific entrypoint like a CLI.
package app
