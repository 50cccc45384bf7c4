// Package config defines the format-agnostic workspace model and the Loader
// interface that produces it.
//
// A workspace declares shared values, random draws and the stream seed. The
// app package turns a Model into shared values, a random stream manager and
// a compiled function. Concrete loaders, such as for HCL, live in separate
// packages.
package config
