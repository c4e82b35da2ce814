// Package wfclog provides the module's shared structured logger: a
// thin console-writer wrapper around zerolog, configured once here so
// every package logs in the same shape instead of each reaching for
// log.Printf on its own.
package wfclog
