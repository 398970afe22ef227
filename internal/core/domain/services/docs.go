// Package services provides the domain services of the fleet: path search
// and smoothing over the floor grid, and dispatching orders to robots.
//
// The package includes:
//   - PathFinder: A* shortest path search on the 4-connected grid
//   - PathSmoother: line-of-sight reduction of a path to waypoints
//   - RoutePlanner: search followed by smoothing
//   - FleetDispatcher: the all-or-nothing assignment of an order to a robot
//
// All services are stateless after construction and safe for concurrent use.
package services
