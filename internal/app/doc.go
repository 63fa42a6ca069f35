// Package app wires configuration, reference parsing and the fetch
// strategies into the Fetcher used by the command line.
package app
