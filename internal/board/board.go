// internal/board/board.go
//
// Board model for the memory trainer.
// Defines:
//   - Square: one of the 64 coordinates ("a1".."h8").
//   - Color/Kind/Piece: the 12-entry piece catalog with display symbols
//     and kind-based selection weights.
//
// The square set and piece catalog are fixed at startup and never mutated.

package board

// Size is the number of squares on the board.
const Size = 64

// Square identifies a single board coordinate, file a–h × rank 1–8.
type Square string

var squares []Square

func init() {
	squares = make([]Square, 0, Size)
	for rank := '1'; rank <= '8'; rank++ {
		for file := 'a'; file <= 'h'; file++ {
			squares = append(squares, Square(string(file)+string(rank)))
		}
	}
}

// Squares returns a fresh copy of the 64 squares in file-major, rank-ascending
// order. Callers may reorder the returned slice freely.
func Squares() []Square {
	out := make([]Square, Size)
	copy(out, squares)
	return out
}

// Valid reports whether sq names a real board coordinate.
func Valid(sq Square) bool {
	if len(sq) != 2 {
		return false
	}
	return sq[0] >= 'a' && sq[0] <= 'h' && sq[1] >= '1' && sq[1] <= '8'
}

// Color is a piece color.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Valid reports whether c is a known color.
func (c Color) Valid() bool { return c == White || c == Black }

// Kind is a piece category. Six kinds per color.
type Kind string

const (
	King   Kind = "king"
	Queen  Kind = "queen"
	Rook   Kind = "rook"
	Bishop Kind = "bishop"
	Knight Kind = "knight"
	Pawn   Kind = "pawn"
)

// Kinds lists every piece kind. Index order is stable; random draws index
// into this slice.
var Kinds = []Kind{King, Queen, Rook, Bishop, Knight, Pawn}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, kk := range Kinds {
		if k == kk {
			return true
		}
	}
	return false
}

// Piece is one of the 12 catalog entries: a (color, kind) pair.
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
}

// symbols maps each catalog entry to its display glyph.
var symbols = map[Piece]string{
	{White, King}: "♔", {White, Queen}: "♕", {White, Rook}: "♖",
	{White, Bishop}: "♗", {White, Knight}: "♘", {White, Pawn}: "♙",
	{Black, King}: "♚", {Black, Queen}: "♛", {Black, Rook}: "♜",
	{Black, Bishop}: "♝", {Black, Knight}: "♞", {Black, Pawn}: "♟",
}

// weights holds the kind-based selection weight for each piece kind.
// Reserved for weighted draw variants; the default draw is uniform.
var weights = map[Kind]int{
	King: 1, Queen: 1, Rook: 2, Bishop: 2, Knight: 2, Pawn: 8,
}

// Symbol returns the display glyph for p, or "?" for a non-catalog pair.
func (p Piece) Symbol() string {
	if s, ok := symbols[p]; ok {
		return s
	}
	return "?"
}

// Weight returns the kind-based selection weight for p.
func (p Piece) Weight() int { return weights[p.Kind] }

// Valid reports whether p is one of the 12 catalog entries.
func (p Piece) Valid() bool { return p.Color.Valid() && p.Kind.Valid() }

// Catalog returns all 12 pieces, white set first.
func Catalog() []Piece {
	out := make([]Piece, 0, len(Kinds)*2)
	for _, c := range []Color{White, Black} {
		for _, k := range Kinds {
			out = append(out, Piece{Color: c, Kind: k})
		}
	}
	return out
}
