// Package countrytemplate ships a small self-contained rule set used by the
// CLI and the integration tests: persons and households, a handful of tax
// and benefit variables, and embedded parameter files. It stands in for a
// real country package, which would be authored the same way.
package countrytemplate
