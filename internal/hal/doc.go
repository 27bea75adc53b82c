// Package hal provides the hardware abstraction layer for Parklot Core.
//
// It defines narrow interfaces for the physical devices the controller
// touches: two presence lines, the barrier servo, two indicator lines, the
// temperature/humidity sensor, and the 2-line text display. Workers depend
// only on these interfaces, never on a concrete driver.
//
// The default build ships a simulated lot (driver "sim") so the controller
// and its tests run on a desktop machine without lot hardware. A GPIO driver
// implements the same interfaces on the target board.
package hal
