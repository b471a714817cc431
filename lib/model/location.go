package model

import (
	"fmt"
	"strings"
)

type LocationType int

const (
	Mainline LocationType = iota
	Branch
	Tag
)

func (t LocationType) String() string {
	switch t {
	case Mainline:
		return "HEAD"
	case Branch:
		return "branch"
	case Tag:
		return "tag"
	default:
		return fmt.Sprintf("LocationType(%d)", int(t))
	}
}

func ParseLocationType(s string) (LocationType, error) {
	switch strings.ToLower(s) {
	case "", "head", "mainline":
		return Mainline, nil
	case "branch":
		return Branch, nil
	case "tag":
		return Tag, nil
	default:
		return Mainline, fmt.Errorf("unknown location type: %v", s)
	}
}

// Location is the line of history a change set is computed for.
type Location struct {
	Type LocationType
	Name string

	// UseHeadIfNotFound degrades a branch or tag request to the mainline
	// when the symbolic name is missing
	UseHeadIfNotFound bool
}

func MainlineLocation() Location {
	return Location{Type: Mainline}
}

func BranchLocation(name string, useHeadIfNotFound bool) Location {
	return Location{Type: Branch, Name: name, UseHeadIfNotFound: useHeadIfNotFound}
}

func TagLocation(name string, useHeadIfNotFound bool) Location {
	return Location{Type: Tag, Name: name, UseHeadIfNotFound: useHeadIfNotFound}
}

func (l Location) IsMainline() bool {
	return l.Type == Mainline
}

func (l Location) String() string {
	if l.IsMainline() {
		return l.Type.String()
	}

	return l.Type.String() + ":" + l.Name
}
