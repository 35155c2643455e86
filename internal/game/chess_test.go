package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playUCI(t *testing.T, e Engine, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		promo := ""
		if len(mv) == 5 {
			promo = mv[4:]
		}
		require.NoError(t, e.Move(mv[0:2], mv[2:4], promo), "move %s", mv)
	}
}

func TestChessEngineInitialPosition(t *testing.T) {
	e := NewChessEngine()

	assert.Equal(t, White, e.Turn())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", e.FEN())
	assert.Equal(t, "White to move", StatusText(e))
	assert.Nil(t, Outcome(e))
}

func TestChessEngineMoveChangesTurn(t *testing.T) {
	e := NewChessEngine()
	playUCI(t, e, "e2e4")

	assert.Equal(t, Black, e.Turn())
	assert.Equal(t, "Black to move", StatusText(e))
	assert.Contains(t, e.PGN(), "e4")
}

func TestChessEngineRejectsIllegalMoveWithoutMutation(t *testing.T) {
	e := NewChessEngine()
	before := e.FEN()

	cases := []struct{ from, to, promo string }{
		{"e2", "e5", ""},
		{"e7", "e5", ""},
		{"z9", "e4", ""},
		{"", "", ""},
		{"e2", "e4e4", "x"},
	}
	for _, tc := range cases {
		err := e.Move(tc.from, tc.to, tc.promo)
		require.ErrorIs(t, err, ErrIllegalMove)
		assert.Equal(t, before, e.FEN())
	}
}

func TestChessEngineCheckmate(t *testing.T) {
	e := NewChessEngine()
	playUCI(t, e, "f2f3", "e7e5", "g2g4", "d8h4")

	assert.True(t, e.IsCheckmate())
	assert.True(t, e.InCheck())
	assert.Equal(t, "Checkmate - Black wins", StatusText(e))
	assert.Equal(t, &Result{Result: "Black", Reason: ReasonCheckmate}, Outcome(e))

	assert.ErrorIs(t, e.Move("a2", "a3", ""), ErrIllegalMove)
}

func TestChessEngineCheck(t *testing.T) {
	e := NewChessEngine()
	playUCI(t, e, "e2e4", "f7f6", "d1h5")

	assert.True(t, e.InCheck())
	assert.False(t, e.IsCheckmate())
	assert.Equal(t, "Black to move - Check", StatusText(e))
}

func TestChessEngineStalemate(t *testing.T) {
	e := NewChessEngine()
	playUCI(t, e,
		"e2e3", "a7a5", "d1h5", "a8a6", "h5a5", "h7h5",
		"h2h4", "a6h6", "a5c7", "f7f6", "c7d7", "e8f7",
		"d7b7", "d8d3", "b7b8", "d3h7", "b8c8", "f7g6",
		"c8e6",
	)

	assert.True(t, e.IsStalemate())
	assert.True(t, e.IsDraw())
	assert.Equal(t, "Stalemate - Draw", StatusText(e))
	assert.Equal(t, &Result{Result: ResultDraw, Reason: ReasonStalemate}, Outcome(e))
}

func TestChessEngineLegalDestinations(t *testing.T) {
	e := NewChessEngine()

	assert.Equal(t, []string{"e3", "e4"}, e.LegalDestinations("e2"))
	assert.Equal(t, []string{"a3", "c3"}, e.LegalDestinations("b1"))
	assert.Empty(t, e.LegalDestinations("e4"))
	assert.Empty(t, e.LegalDestinations("e7"))
}

func TestChessEnginePromotion(t *testing.T) {
	e := NewChessEngine()
	require.NoError(t, e.LoadFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"))

	require.NoError(t, e.Move("a7", "a8", "n"))
	assert.True(t, strings.HasPrefix(e.FEN(), "N7/"), e.FEN())

	require.NoError(t, e.LoadFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"))
	require.NoError(t, e.Move("a7", "a8", ""))
	assert.True(t, strings.HasPrefix(e.FEN(), "Q7/"), e.FEN())
}

func TestChessEngineResetAndReload(t *testing.T) {
	e := NewChessEngine()
	playUCI(t, e, "d2d4", "d7d5")
	fen := e.FEN()

	e.Reset()
	assert.Equal(t, NewChessEngine().FEN(), e.FEN())

	require.NoError(t, e.LoadFEN(fen))
	assert.Equal(t, fen, e.FEN())

	assert.Error(t, e.LoadFEN("not a fen"))
	assert.Equal(t, fen, e.FEN())
}

func TestResignation(t *testing.T) {
	assert.Equal(t, Result{Result: "Black", Reason: ReasonResignation}, Resignation(White))
	assert.Equal(t, Result{Result: "White", Reason: ReasonResignation}, Resignation(Black))
}
