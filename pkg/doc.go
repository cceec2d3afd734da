// Package pkg provides the core libraries for antnest colony simulation.
//
// # Overview
//
// Antnest moves a colony of ants from the source room of a nest (Sv) to its
// sink (Sd). Every step, each ant may cross one tunnel, rooms never hold more
// ants than their capacity, and an ant prefers tunnels that are shorter to
// the sink and less crowded. The pkg directory is organized into these areas:
//
//  1. [nest], [colony], [history], [sim] - Domain logic (topology, occupancy,
//     move recording, the step engine)
//  2. [io], [graph] - Nest text, solution text and report serialization
//  3. [analysis], [generate] - Topology inspection and random nests
//  4. [cache], [archive], [config] - Infrastructure (caching, run storage,
//     settings)
//  5. [pipeline] - Orchestration (load → solve → render)
//  6. [render] - Graphviz diagrams of a nest at any step
//
// # Architecture
//
// The typical data flow:
//
//	Nest text (f=N, rooms, tunnels)
//	         ↓
//	    [io] package (parse into an immutable nest)
//	         ↓
//	    [sim] package (step until delivered or stalled)
//	         ↓
//	    [history] recorder (moves, trails, stats)
//	         ↓
//	    solution text / JSON / YAML / DOT / SVG / PNG / PDF
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//	    "strings"
//
//	    nestio "github.com/matzehuels/antnest/pkg/io"
//	    "github.com/matzehuels/antnest/pkg/sim"
//	)
//
//	n, err := nestio.ReadNest(strings.NewReader("f=2\nM\nSv - M\nM - Sd\n"), "line")
//	if err != nil {
//	    return err
//	}
//	res, err := sim.Run(context.Background(), n, sim.Options{})
//	if err != nil {
//	    return err
//	}
//	nestio.WriteSolution(os.Stdout, n, res)
//
// For cached, multi-format runs use [pipeline.Runner] instead.
//
// [nest]: github.com/matzehuels/antnest/pkg/nest
// [colony]: github.com/matzehuels/antnest/pkg/colony
// [history]: github.com/matzehuels/antnest/pkg/history
// [sim]: github.com/matzehuels/antnest/pkg/sim
// [io]: github.com/matzehuels/antnest/pkg/io
// [graph]: github.com/matzehuels/antnest/pkg/graph
// [analysis]: github.com/matzehuels/antnest/pkg/analysis
// [generate]: github.com/matzehuels/antnest/pkg/generate
// [cache]: github.com/matzehuels/antnest/pkg/cache
// [archive]: github.com/matzehuels/antnest/pkg/archive
// [config]: github.com/matzehuels/antnest/pkg/config
// [pipeline]: github.com/matzehuels/antnest/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/antnest/pkg/pipeline#Runner
// [render]: github.com/matzehuels/antnest/pkg/render
package pkg
