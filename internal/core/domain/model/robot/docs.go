// Package robot provides the Robot aggregate: identity, battery, position and
// facing of one fleet robot together with its current delivery task (order
// reference and route) and lifetime statistics.
//
// The package includes:
//   - Robot: the aggregate root with the task lifecycle operations
//   - Status: the lifecycle states and their classification helpers
//   - Step: the outcome of advancing one waypoint
//
// Robots are mutated only by the fleet coordinator and by operator actions;
// they are deactivated, never deleted.
package robot
