package game

// Result describes a concluded game.
type Result struct {
	// Result is "White", "Black" or "Draw".
	Result string
	Reason string
}

const (
	ResultDraw = "Draw"

	ReasonCheckmate   = "Checkmate"
	ReasonStalemate   = "Stalemate"
	ReasonDraw        = "Draw"
	ReasonResignation = "Resignation"
)

// StatusText renders the human readable position status.
func StatusText(e Engine) string {
	switch {
	case e.IsCheckmate():
		return "Checkmate - " + e.Turn().Opposite().Label() + " wins"
	case e.IsStalemate():
		return "Stalemate - Draw"
	case e.IsDraw():
		return "Draw"
	case e.InCheck():
		return e.Turn().Label() + " to move - Check"
	default:
		return e.Turn().Label() + " to move"
	}
}

// Outcome returns the result of a finished position, or nil while play goes on.
func Outcome(e Engine) *Result {
	switch {
	case e.IsCheckmate():
		return &Result{Result: e.Turn().Opposite().Label(), Reason: ReasonCheckmate}
	case e.IsStalemate():
		return &Result{Result: ResultDraw, Reason: ReasonStalemate}
	case e.IsDraw():
		return &Result{Result: ResultDraw, Reason: ReasonDraw}
	default:
		return nil
	}
}

// Resignation returns the result when loser resigns.
func Resignation(loser Color) Result {
	return Result{Result: loser.Opposite().Label(), Reason: ReasonResignation}
}
