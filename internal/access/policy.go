// Package access decides which caller roles may perform which operations
// on which API collections.  It is pure and knows nothing about HTTP.
package access

import "net/http"

// Role of the caller as resolved from the request.
type Role string

const (
	Anonymous     Role = "anonymous"
	Authenticated Role = "authenticated"
	Staff         Role = "staff"
)

// Operation is either a read (list/retrieve) or a write (create/update/delete).
type Operation string

const (
	Read  Operation = "read"
	Write Operation = "write"
)

// Resource names an API collection.
type Resource string

const (
	Airlines      Resource = "airlines"
	AirplaneTypes Resource = "airplane-types"
	Airplanes     Resource = "airplanes"
	Countries     Resource = "countries"
	Cities        Resource = "cities"
	Airports      Resource = "airports"
	Routes        Resource = "routes"
	CrewMembers   Resource = "crew-members"
	Meals         Resource = "meals"
	Flights       Resource = "flights"
	Orders        Resource = "orders"
	Tickets       Resource = "tickets"
)

// rule is the minimum role required per operation.
type rule struct {
	read, write Role
}

var rules = map[Resource]rule{
	Airlines:      {read: Authenticated, write: Staff},
	AirplaneTypes: {read: Authenticated, write: Staff},
	Airplanes:     {read: Authenticated, write: Staff},
	Countries:     {read: Authenticated, write: Staff},
	Cities:        {read: Authenticated, write: Staff},
	Airports:      {read: Authenticated, write: Staff},
	Routes:        {read: Authenticated, write: Staff},
	CrewMembers:   {read: Authenticated, write: Staff},
	Meals:         {read: Authenticated, write: Staff},
	Flights:       {read: Authenticated, write: Staff},
	// Any signed-in user books; reads are scoped to the caller's own orders
	// by the handlers, staff included.
	Orders: {read: Authenticated, write: Authenticated},
}

func rank(r Role) int {
	switch r {
	case Authenticated:
		return 1
	case Staff:
		return 2
	}
	return 0
}

// Allowed reports whether role may perform op on res.  Unknown resources,
// tickets included, are denied for everyone.
func Allowed(role Role, res Resource, op Operation) bool {
	ru, ok := rules[res]
	if !ok || rank(role) == 0 {
		return false
	}
	need := ru.read
	if op == Write {
		need = ru.write
	}
	return rank(role) >= rank(need)
}

// OperationFor maps an HTTP method to an operation.  Safe methods read.
func OperationFor(method string) Operation {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Read
	}
	return Write
}
