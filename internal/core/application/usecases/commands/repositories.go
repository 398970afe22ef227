// Package commands contains the operations that change fleet state.
// All commands follow a consistent pattern: a validated command value, a
// handler that opens a unit of work, mutates aggregates through domain
// methods and commits, and a result describing what happened.
package commands

import (
	"context"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RobotRepoFactory provides access to robot repository within a transaction.
	RobotRepoFactory interface {
		RobotRepository() ports.RobotRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RobotUoW manages transactions for robot-only operations.
	RobotUoW interface {
		TxManager
		RobotRepoFactory
	}

	// RobotUoWFactory creates new robot unit of work instances.
	RobotUoWFactory interface {
		Create() RobotUoW
	}

	// UoW manages transactions across both robot and order aggregates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   robotRepo := uow.RobotRepository()
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		RobotRepoFactory
		OrderRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// RoutePlanner computes the route a robot drives between two cells.
type RoutePlanner interface {
	Plan(from, to kernel.Position) (route.Route, bool)
}
