// Package statsview is an optional runtime statistics server, built only
// with the statsview build tag
//
// After launch, charts are served at localhost:12600/debug/statsview and
// pprof at localhost:12600/debug/pprof/
package statsview
