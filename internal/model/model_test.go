package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAirplaneCapacity(t *testing.T) {
	a := Airplane{Rows: 30, SeatsInRow: 8}
	assert.Equal(t, 240, a.Capacity())
	assert.Equal(t, 0, Airplane{}.Capacity())
}

func TestRouteCode(t *testing.T) {
	tests := []struct {
		src, dst, want string
	}{
		{"Boryspil", "heathrow", "Bor - Hea"},
		{"JFK", "LAX", "Jfk - Lax"},
		{"Oz", "Kyiv Zhuliany", "Oz - Kyi"},
		{"Ålesund", "Bergen", "Åle - Ber"},
	}
	for _, tt := range tests {
		t.Run(tt.src+"-"+tt.dst, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteCode(tt.src, tt.dst))
		})
	}
	r := Route{Source: Airport{Name: "Boryspil"}, Destination: Airport{Name: "Heathrow"}}
	assert.Equal(t, "Bor - Hea", r.Code())
}

func TestValidTicketClass(t *testing.T) {
	assert.True(t, ValidTicketClass(ClassEconomy))
	assert.True(t, ValidTicketClass(ClassBusiness))
	assert.False(t, ValidTicketClass("FIRST"))
	assert.False(t, ValidTicketClass(""))
}

func TestUserIsStaff(t *testing.T) {
	assert.True(t, User{Role: RoleStaff}.IsStaff())
	assert.False(t, User{Role: RoleCustomer}.IsStaff())
}
