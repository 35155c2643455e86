package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corentings/chess/v2"
)

var promotionPieces = map[string]chess.PieceType{
	"q": chess.Queen,
	"r": chess.Rook,
	"b": chess.Bishop,
	"n": chess.Knight,
}

// claimableDraws are applied automatically after every move.
var claimableDraws = []chess.Method{
	chess.ThreefoldRepetition,
	chess.FiftyMoveRule,
}

// ChessEngine implements Engine on top of corentings/chess.
type ChessEngine struct {
	g *chess.Game
}

// NewChessEngine returns an engine in the standard starting position.
func NewChessEngine() Engine {
	return &ChessEngine{g: chess.NewGame()}
}

// Turn implements Engine.
func (e *ChessEngine) Turn() Color {
	if e.g.Position().Turn() == chess.White {
		return White
	}
	return Black
}

// InCheck reports whether the last move gave check.
func (e *ChessEngine) InCheck() bool {
	moves := e.g.Moves()
	if len(moves) == 0 {
		return false
	}
	last := moves[len(moves)-1]
	return last.HasTag(chess.Check)
}

// IsCheckmate implements Engine.
func (e *ChessEngine) IsCheckmate() bool {
	return e.g.Method() == chess.Checkmate
}

// IsStalemate implements Engine.
func (e *ChessEngine) IsStalemate() bool {
	return e.g.Method() == chess.Stalemate
}

// IsDraw implements Engine.
func (e *ChessEngine) IsDraw() bool {
	return e.g.Outcome() == chess.Draw
}

// Move implements Engine.
func (e *ChessEngine) Move(from, to, promotion string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: rules engine fault: %v", ErrIllegalMove, r)
		}
	}()

	if e.g.Outcome() != chess.NoOutcome {
		return ErrIllegalMove
	}

	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	promotion = strings.ToLower(strings.TrimSpace(promotion))

	uci, ok := e.matchLegal(from, to, promotion)
	if !ok {
		return ErrIllegalMove
	}
	if err := e.g.PushNotationMove(uci, chess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	e.claimDraws()
	return nil
}

// matchLegal finds the legal move for from→to and returns its UCI form.
// A missing promotion piece on a promoting move defaults to a queen; a
// promotion piece on a non-promoting move is ignored.
func (e *ChessEngine) matchLegal(from, to, promotion string) (string, bool) {
	for _, m := range e.g.ValidMoves() {
		if m.S1().String() != from || m.S2().String() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType {
			return from + to, true
		}
		want := promotion
		if want == "" {
			want = "q"
		}
		if piece, ok := promotionPieces[want]; ok && m.Promo() == piece {
			return from + to + want, true
		}
	}
	return "", false
}

func (e *ChessEngine) claimDraws() {
	if e.g.Outcome() != chess.NoOutcome {
		return
	}
	for _, eligible := range e.g.EligibleDraws() {
		for _, method := range claimableDraws {
			if eligible == method {
				_ = e.g.Draw(method)
				return
			}
		}
	}
}

// LegalDestinations implements Engine.
func (e *ChessEngine) LegalDestinations(square string) []string {
	square = strings.ToLower(strings.TrimSpace(square))
	seen := make(map[string]struct{})
	targets := []string{}
	for _, m := range e.g.ValidMoves() {
		if m.S1().String() != square {
			continue
		}
		to := m.S2().String()
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		targets = append(targets, to)
	}
	sort.Strings(targets)
	return targets
}

// FEN implements Engine.
func (e *ChessEngine) FEN() string {
	return e.g.FEN()
}

// PGN implements Engine.
func (e *ChessEngine) PGN() string {
	return e.g.String()
}

// LoadFEN replaces the game with the given position. On error the state is
// unchanged.
func (e *ChessEngine) LoadFEN(fen string) error {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return fmt.Errorf("decode fen: %w", err)
	}
	e.g = chess.NewGame(opt)
	return nil
}

// LoadPGN replaces the game with the one encoded in pgn.
func (e *ChessEngine) LoadPGN(pgn string) error {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return fmt.Errorf("decode pgn: %w", err)
	}
	e.g = chess.NewGame(opt)
	return nil
}

// Reset implements Engine.
func (e *ChessEngine) Reset() {
	e.g = chess.NewGame()
}
