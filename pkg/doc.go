// Package pkg provides the libraries behind the enfield qubit router.
//
// # Overview
//
// Enfield takes a quantum circuit written for fully connected logical qubits
// and rewrites it for a device whose physical qubits are only partially
// coupled. Whenever a two-qubit gate acts on qubits that are not adjacent
// under the current mapping, the router inserts swaps that move them
// together. The pkg directory is organized into four areas:
//
//  1. Model: [graph], [arch], [placement], [perm], [circuit]
//  2. Routing: [estimate], [swap], [live], [route], [pass], [stats]
//  3. Infrastructure: [cache], [config], [errors], [observability], [io]
//  4. Orchestration and output: [pipeline], [render/dot]
//
// # Data Flow
//
//	OpenQASM 2 text          device name or file
//	      ↓                         ↓
//	[circuit/qasm]           [arch] / [io]
//	      ↓                         ↓
//	      └──────→ [route] ←────────┘
//	                  ↓
//	   routed circuit, placements, swaps, stats
//	                  ↓
//	   [pipeline] artifacts: qasm, json, dot, svg
//
// # Quick Start
//
//	m, _ := qasm.ParseFile("qft.qasm")
//	device, _ := arch.Lookup("ibmqx5")
//
//	r := route.New(route.Config{
//	    Finder:    swap.NewApprox(),
//	    Estimator: estimate.NewGeoDistance(),
//	})
//	if err := r.Preprocess(ctx, device); err != nil {
//	    return err
//	}
//	res, err := r.Route(m, device, nil)
//
// Most programs go through [pipeline] instead, which adds caching, timeouts
// and rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    CircuitPath: "qft.qasm",
//	    Arch:        "ibmqx5",
//	    Formats:     []string{"qasm", "svg"},
//	})
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [graph]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/graph
// [arch]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/arch
// [placement]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/placement
// [perm]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/graph/perm
// [circuit]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/circuit
// [circuit/qasm]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/circuit/qasm
// [estimate]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/estimate
// [swap]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/swap
// [live]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/live
// [route]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/route
// [pass]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/pass
// [stats]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/stats
// [cache]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/cache
// [config]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/config
// [errors]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/errors
// [observability]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/observability
// [io]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/pipeline
// [render/dot]: https://pkg.go.dev/github.com/ysiraichi/enfield/pkg/render/dot
package pkg
