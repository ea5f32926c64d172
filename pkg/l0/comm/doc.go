// Package comm provides L0 protocol support.
package comm

// L0 protocol is communicated between the vehicle firmware and the topside
// over a peer-to-peer channel (e.g. serial port or serial over tether).
//
// Every exchange is a fixed 4-byte frame: command, two value bytes and a
// trailing byte carrying a 4-bit sequence number and a 4-bit checksum.
// The checksum is a weighted sum modulo 16. Frames failing the check are
// dropped without a reply, the sender recovers by retransmitting.
//
// The vehicle replies to every valid frame. Each reply is stamped with the
// sequence number of the replying side, which advances only when a reply
// is sent.
//
// Producer: topside
// Consumer: vehicle firmware
