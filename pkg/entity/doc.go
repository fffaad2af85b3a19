// Package entity defines the participant model of the evaluation engine:
// entity descriptors (person entities and group entities with roles) and
// populations, the runtime instance sets a simulation evaluates over.
//
// Entity descriptors are immutable once built. Populations are built once per
// simulation from the structural situation input and are immutable thereafter;
// only the value holders they own mutate during a run.
package entity
