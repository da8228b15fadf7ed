package access

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var catalogue = []Resource{Airlines, AirplaneTypes, Airplanes, Countries, Cities, Airports, Routes, CrewMembers, Meals, Flights}

func TestAllowed_Anonymous(t *testing.T) {
	for _, res := range append(catalogue, Orders) {
		assert.False(t, Allowed(Anonymous, res, Read), "read %s", res)
		assert.False(t, Allowed(Anonymous, res, Write), "write %s", res)
	}
}

func TestAllowed_AuthenticatedReadOnlyCatalogue(t *testing.T) {
	for _, res := range catalogue {
		assert.True(t, Allowed(Authenticated, res, Read), "read %s", res)
		assert.False(t, Allowed(Authenticated, res, Write), "write %s", res)
	}
}

func TestAllowed_StaffEverything(t *testing.T) {
	for _, res := range append(catalogue, Orders) {
		assert.True(t, Allowed(Staff, res, Read), "read %s", res)
		assert.True(t, Allowed(Staff, res, Write), "write %s", res)
	}
}

func TestAllowed_Orders(t *testing.T) {
	assert.True(t, Allowed(Authenticated, Orders, Read))
	assert.True(t, Allowed(Authenticated, Orders, Write))
}

func TestAllowed_TicketsNeverExposed(t *testing.T) {
	for _, role := range []Role{Anonymous, Authenticated, Staff} {
		assert.False(t, Allowed(role, Tickets, Read))
		assert.False(t, Allowed(role, Tickets, Write))
	}
	assert.False(t, Allowed(Staff, Resource("unknown"), Read))
}

func TestOperationFor(t *testing.T) {
	tests := map[string]Operation{
		http.MethodGet:     Read,
		http.MethodHead:    Read,
		http.MethodOptions: Read,
		http.MethodPost:    Write,
		http.MethodPut:     Write,
		http.MethodPatch:   Write,
		http.MethodDelete:  Write,
	}
	for method, want := range tests {
		assert.Equal(t, want, OperationFor(method), method)
	}
}
