// Lexcore evaluates legislative rule sets over situations.
//
// It loads a rule set (entities, dated formulas, parameter trees), builds a
// simulation from a situation document, and computes the requested
// variables, optionally with a full dependency trace.
//
// Usage:
//
//	# Evaluate the calculations requested by a situation file
//	lexcore calculate --situation family.json
//
//	# Same, with the dependency trace attached to the output
//	lexcore calculate --situation family.json --trace
//
//	# Print the rule set's variable and parameter descriptors
//	lexcore describe
//
//	# Show version information
//	lexcore version
package main

func main() {
	Execute()
}
