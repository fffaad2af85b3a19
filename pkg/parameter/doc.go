// Package parameter implements the tree of time-versioned legislative
// constants consulted during evaluation.
//
// The tree is an explicit tagged-variant structure: a Node holds named
// children, a Leaf holds an effective-dated scalar, and a Scale holds
// effective-dated ordered bracket lists for piecewise rates. Resolution at an
// instant walks the dotted path and returns the value in force, meaning the
// one with the latest effective date at or before the instant.
//
// Trees load from YAML files (one or more files merged under the root) and
// can be watched for changes with a fsnotify-based Watcher so a long-running
// system can swap in updated constants without restarting.
package parameter
