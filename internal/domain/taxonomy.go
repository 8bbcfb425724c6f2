package domain

// Craft is the top level of the problem taxonomy.
type Craft struct {
	ID     int64
	Name   string
	Active bool
}

// Specialty belongs to exactly one craft.
type Specialty struct {
	ID      int64
	CraftID int64
	Name    string
	Active  bool
}
