// Package ports defines the interfaces (ports) that connect the pipeline to
// infrastructure adapters.
//
// Ports are the boundaries between the pipeline core and the outside world.
// They define what the pipeline needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Encoder]: Turns a log record into its transmittable byte form
//   - [Conn]: The outbound connection the sender stage writes packets to
//
// The pipeline (internal/pipeline) depends only on these interfaces.
// Concrete implementations live in pkg/codec and pkg/transport. Tests supply
// in-memory fakes, so the pipeline is exercised without a real network.
package ports
