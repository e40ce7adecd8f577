// Package colorlight provides a Go library for driving LED video walls built
// on ColorLight 5A-75B (and compatible) receiver cards over raw Ethernet
// frames, without the vendor's Windows control stack.
//
// # Overview
//
// This library implements the reverse-engineered ColorLight layer-2 protocol.
// It frames and parses the two wire formats the receiver speaks, maps a
// rectangular pixel buffer onto the physical row/packet sequence a multiplexed
// panel array expects, reads and writes the vendor's binary .rcvp/.rcvbp
// configuration files, and sequences configuration and realtime pixel
// streaming over a caller-supplied raw-socket sender.
//
// # Protocol Architecture
//
// The receiver understands two distinct Ethernet frame shapes:
//
//   - Display frames: [DST MAC(6)][SRC MAC(6)][Type(1)][Payload]. Type 0x55
//     carries one run of row pixel data (max 497 pixels per frame), 0x01
//     latches the buffered image onto the panels, 0x0A sets brightness.
//   - Config frames: [DST MAC(6)][SRC MAC(6)][EtherType 0x0880(2)]
//     [Controller Address(16)][Sync 55:66:11:22:33:44:55:66(8)][Type(1)]
//     [Sequence(1)][Payload]. The receiver FPGA locates the type byte via the
//     fixed sync pattern; a frame without it is ignored by the hardware.
//
// Pixel addressing fields are big-endian; the configuration file format is a
// flat little-endian structure addressed by fixed byte offsets.
//
// # Configuration Flow
//
// A receiver is configured by a strictly ordered frame sequence: control area
// (0x02), port routing (0x03), basic parameters (0x05), optional gamma table
// (0x76), volatile EEPROM parameters (0x1B) and, only when persistence is
// wanted, the flash save (0x2B). The wire protocol carries no acknowledgments;
// the engine paces frames with a configurable inter-frame delay.
//
// # Quick Start
//
//	grid := colorlight.PanelGrid{
//	    PanelsX: 5, PanelsY: 4,
//	    PanelWidth: 64, PanelHeight: 32,
//	    ScanMode: 16,
//	    Cascade:  colorlight.CascadeLeftToRight,
//	    Order:    colorlight.OrderBGR,
//	}
//	eng, err := colorlight.NewEngine(sender, grid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = eng.Configure(ctx, false)
//	err = eng.Stream(ctx, source, 60)
//
// # Supported Features
//
//   - Display and config frame encode/decode with sync-pattern validation
//   - Scan-mode aware pixel mapping with pluggable row-order strategies
//   - Multi-panel cascade in all four chaining directions
//   - MTU-bounded row chunking for walls wider than one Ethernet frame
//   - .rcvp (plain) and .rcvbp (zlib-compressed) config file load/save,
//     template synthesis and offset-table field access
//   - Receiver discovery (broadcast request, deduplicated responses)
//   - Continuous fps-paced streaming with black-frame shutdown
//
// # Thread Safety
//
// An Engine owns its sender exclusively: streaming, configuration and
// discovery are mutually exclusive states, and only one of them writes to the
// wire at any time. Interleaving frames from two writers would desynchronize
// the receiver's incremental row buffer.
package colorlight
