// Package actor implements an in-process actor runtime: lightweight,
// isolated units of computation ("actor processes") that communicate
// exclusively by asynchronous message passing, support unidirectional
// failure notification ("links"), and can be looked up by name through a
// registry actor ("MCP").
//
// Actors are spawned in one of two forms. The imperative form (Spawn,
// SpawnLink) hands the runtime a single Handler closure that sees every
// message in turn. The declarative form (NewBuilder) builds an actor out of
// an ordered sequence of pure matchers and the effectful action lists
// attached to them, so actors can be assembled from data rather than
// inheritance.
//
// Every actor, regardless of form, participates in the same link/exit
// protocol: a Link message appends its sender as an uplink with no
// deduplication, and a Shutdown message (or a declarative action returning
// an error) notifies every uplink with exactly one Exited message before
// the actor terminates.
package actor
