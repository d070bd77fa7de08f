package model

// Counterparty is the other party of a movement: a merchant, person,
// or institution. Owned by the catalog layer; the pipeline only reads it.
type Counterparty struct {
	Name   string
	ID     int64
	Active bool
}

// Group is the top level of the two-level classification taxonomy.
type Group struct {
	Name   string
	ID     int64
	Active bool
}

// Concept is the second level of the taxonomy, nested under a group.
type Concept struct {
	Name    string
	GroupID int64
	ID      int64
	Active  bool
}

// Account is a bank or card account movements are booked against.
type Account struct {
	Name   string
	ID     int64
	Active bool
}

// Currency is a currency movements are denominated in.
type Currency struct {
	Code   string
	Name   string
	ID     int64
	Active bool
}
