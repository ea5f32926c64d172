// Package msgs provides L1 protocol support and all message schemas.
package msgs

// L1 protocol is communicated between the vehicle controller and topside
// clients, and uses hardware-agnostic primitives. Messages are protobuf
// encoded and wrapped in Typed for dispatching.
//
// Producer: vehicle controller
// Consumer: topside clients
