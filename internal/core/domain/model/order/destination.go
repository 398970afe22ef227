package order

import (
	"robodelivery/internal/pkg/errs"
)

// ErrDestinationIsRequired is returned for a destination with neither a table nor an address.
var ErrDestinationIsRequired = errs.NewValueIsRequiredError("destination")

// ErrDestinationIsAmbiguous is returned when both a table and an address are given.
var ErrDestinationIsAmbiguous = errs.NewValueIsInvalidError("destination must be either a table or an address")

// Destination is where an order goes: a table on the floor or a street
// address for off-site delivery. Exactly one of the two is set.
type Destination struct {
	tableID string
	address string
}

// TableDestination builds a destination for a table on the floor.
func TableDestination(tableID string) (Destination, error) {
	return NewDestination(tableID, "")
}

// AddressDestination builds a destination for an off-site address.
func AddressDestination(address string) (Destination, error) {
	return NewDestination("", address)
}

// NewDestination builds a destination from its persisted form.
func NewDestination(tableID, address string) (Destination, error) {
	switch {
	case tableID == "" && address == "":
		return Destination{}, ErrDestinationIsRequired
	case tableID != "" && address != "":
		return Destination{}, ErrDestinationIsAmbiguous
	}
	return Destination{tableID: tableID, address: address}, nil
}

// IsTable reports whether the destination is a table on the floor.
func (d Destination) IsTable() bool {
	return d.tableID != ""
}

func (d Destination) TableID() string {
	return d.tableID
}

func (d Destination) Address() string {
	return d.address
}

// String returns the table id or the address.
func (d Destination) String() string {
	if d.IsTable() {
		return d.tableID
	}
	return d.address
}
