// Package simulation hosts the recursive evaluation orchestrator.
//
// A System bundles the static rule set (entities, variables, parameters). A
// Simulation instantiates it for one request: populations built from a
// situation document, one holder per evaluated variable, a tracer and the
// cycle bookkeeping. Evaluation is synchronous recursion over the variable
// dependency graph with per-period caching, exact-cycle rejection and
// quasi-cycle (spiral) tolerance through default substitution.
//
// Simulations are single-threaded and request-scoped. Run concurrent
// requests on separate Simulation instances; nothing is shared between them.
package simulation
