// Package order provides the robot-delivery view of a restaurant order.
//
// The package includes:
//   - Order: the aggregate with the robot assignment slot and delivery state
//   - Status: the order lifecycle state machine
//   - Destination: a table on the floor or a street address
//
// Key business rules:
//   - Only a Ready order with an empty robot slot can be assigned a robot
//   - Only an order a robot is delivering can be marked delivered
//   - Delivered and Cancelled are final
package order
