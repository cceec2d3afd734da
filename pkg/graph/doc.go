// Package graph provides serialization types for nests and simulation runs.
//
// This package defines the canonical wire format for antnest's data, used for
// JSON and YAML files, API responses, caching, and the run archive.
//
// # Architecture
//
// The package sits at the serialization boundary between the engine's
// in-memory types and external formats:
//
//   - [Nest], [Report], [Frame]: Serialization types (this package)
//   - pkg/nest.Nest: Immutable topology
//   - pkg/history.Recorder: Step log of a run
//
// Use [FromNest]/[ToNest] and [FromResult]/[Report.Recorder] to convert
// between them.
//
// # Core Types
//
//   - [Nest]: Rooms and tunnels with capacities
//   - [Report]: A nest plus the full step history, outcome, and tunnel usage
//   - [Frame]: Occupancy and pheromone trails after one step, for plotting
//
// # Report Serialization
//
// Reports use a flat JSON format:
//
//	{
//	  "nest": {
//	    "name": "simple",
//	    "agents": 2,
//	    "source": "Sv",
//	    "sink": "Sd",
//	    "rooms": [{"id": "Sv"}, {"id": "Sd"}, {"id": "S1", "capacity": 1}],
//	    "tunnels": [{"a": "Sv", "b": "S1"}, {"a": "S1", "b": "Sd"}]
//	  },
//	  "outcome": "delivered",
//	  "steps": 3,
//	  "moves": [[{"agent": 1, "from": "Sv", "to": "S1"}], ...]
//	}
//
// Every type carries json, yaml and bson tags so the same value can be
// written to files, returned over HTTP, and stored in MongoDB.
package graph
