package domain

type ColumnId = int64
type CardId = int64

// Column is a named, ordered bucket of cards. Positions of all columns
// form a dense 0..N-1 sequence after append-only growth or a successful
// reorder; deletions are allowed to leave gaps.
type Column struct {
	Id       ColumnId `json:"id"`
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Cards    []Card   `json:"cards"`
}

// Card is a single link entry belonging to exactly one column.
// Link and Icon are either empty or well-formed http/https URLs,
// enforced at the validation boundary.
type Card struct {
	Id          CardId   `json:"id"`
	ColumnId    ColumnId `json:"column_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Position    int      `json:"position"`
}

// CardPatch carries a partial card update. Nil means "leave untouched".
type CardPatch struct {
	Title       *string
	ColumnId    *ColumnId
	Link        *string
	Description *string
	Icon        *string
}

// Board is the full dashboard state: columns ordered by position, each
// carrying its cards ordered by position.
type Board struct {
	Columns []Column `json:"columns"`
}
