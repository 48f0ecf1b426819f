package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("hotel not found")
	ErrDuplicateNIT = errors.New("nit already registered")
)

// ValidationError carries a 422-shaped field map: field path -> ordered messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed: " + strings.Join(e.Paths(), ", ")
}

// Add appends msg to the messages of path.
func (e *ValidationError) Add(path, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[path] = append(e.Fields[path], msg)
}

func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

// Paths returns the field paths in form order: scalar fields first,
// then room lines by index, then anything else alphabetically.
func (e *ValidationError) Paths() []string {
	out := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		out = append(out, k)
	}
	SortFieldPaths(out)
	return out
}

var scalarOrder = map[string]int{"name": 0, "address": 1, "city": 2, "nit": 3, "max_rooms": 4, "rooms": 5}

var roomFieldOrder = map[string]int{"room_type": 0, "accommodation": 1, "quantity": 2}

// SortFieldPaths orders field paths the way the form lays them out.
func SortFieldPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return lessPath(paths[i], paths[j])
	})
}

func lessPath(a, b string) bool {
	ra, ia, fa := pathRank(a)
	rb, ib, fb := pathRank(b)
	if ra != rb {
		return ra < rb
	}
	if ia != ib {
		return ia < ib
	}
	if fa != fb {
		return fa < fb
	}
	return a < b
}

// pathRank returns (group, row index, column) for a path.
func pathRank(p string) (int, int, int) {
	if r, ok := scalarOrder[p]; ok {
		return r, 0, 0
	}
	if idx, field, ok := ParseRoomPath(p); ok {
		col, known := roomFieldOrder[field]
		if !known {
			col = len(roomFieldOrder)
		}
		return len(scalarOrder), idx, col
	}
	return len(scalarOrder) + 1, 0, 0
}
