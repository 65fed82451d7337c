// Package models defines the data structures shared by the grid writer, the
// reader and the document codec.
package models

import "time"

// CellType is the semantic type tag of a cell value.
type CellType string

const (
	// TypeNumber marks a numeric cell (float64 value).
	TypeNumber CellType = "n"
	// TypeBool marks a boolean cell.
	TypeBool CellType = "b"
	// TypeString marks a textual cell.
	TypeString CellType = "s"
	// TypeDate marks a temporal cell. The value is a time.Time whose UTC
	// fields carry the wall-clock time to display.
	TypeDate CellType = "d"
)

// Coord is a zero-based (row, column) grid coordinate.
type Coord struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Cell is a single grid entry.
type Cell struct {
	// Value is one of float64, bool, string or time.Time.
	Value any `json:"v"`
	// Type is the semantic type tag.
	Type CellType `json:"t"`
	// Format is an optional number/date display format.
	Format string `json:"z,omitempty"`
	// Text is the formatted display text, only populated by the codec on decode.
	Text string `json:"w,omitempty"`
	// Style holds visual attributes.
	Style Style `json:"s"`
}

// InferType returns the type tag matching the dynamic type of v.
func InferType(v any) CellType {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case bool:
		return TypeBool
	case time.Time:
		return TypeDate
	default:
		return TypeString
	}
}
