package model

import (
	"strings"
	"unicode/utf8"
)

type Country struct {
	ID   uint64
	Name string
}

type City struct {
	ID          uint64
	Name        string
	CountryID   uint64
	CountryName string
}

type Airport struct {
	ID       uint64
	Name     string
	CityID   uint64
	CityName string
}

// Route is an ordered (source, destination) airport pair.
type Route struct {
	ID            uint64
	SourceID      uint64
	DestinationID uint64
	Distance      int

	Source      Airport
	Destination Airport
}

// Code abbreviates the route as "ABC - XYZ" from the first three letters
// of each airport name.
func (r Route) Code() string {
	return RouteCode(r.Source.Name, r.Destination.Name)
}

// RouteCode builds the route code from two airport names.
func RouteCode(source, destination string) string {
	return shortName(source) + " - " + shortName(destination)
}

func shortName(name string) string {
	name = strings.TrimSpace(name)
	n := 0
	for i := range name {
		if n == 3 {
			name = name[:i]
			break
		}
		n++
	}
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(first)) + strings.ToLower(name[size:])
}
