// Package kernel holds the value objects shared by every fleet aggregate:
// UUID identifiers, grid Positions and robot facing Directions.
//
// Values are immutable and safe for concurrent use.
package kernel
