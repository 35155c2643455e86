package http

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/wirechess-server/internal/core"
	"github.com/vovakirdan/wirechess-server/internal/proto"
)

var (
	errMalformedPayload = core.NewError(core.ErrCodeBadRequest, "Malformed payload")
	errUnknownType      = core.NewError(core.ErrCodeBadRequest, "Unknown event type")
	errMoveFields       = core.NewError(core.ErrCodeBadRequest, "from and to are required")
	errSquareRequired   = core.NewError(core.ErrCodeBadRequest, "square is required")
	errRateLimited      = core.NewError(core.ErrCodeRateLimited, "Too many messages")
)

// decodeData unmarshals an optional payload. Absent data leaves v zeroed.
func decodeData(data json.RawMessage, v any) *core.CoreError {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errMalformedPayload
	}
	return nil
}

func inboundToCommand(inbound proto.Inbound) (core.Command, *core.CoreError) {
	switch inbound.Type {
	case proto.InboundRoomCreate:
		return core.Command{Kind: core.CommandCreateRoom}, nil
	case proto.InboundQueueJoin:
		return core.Command{Kind: core.CommandJoinQueue}, nil
	case proto.InboundQueueLeave:
		return core.Command{Kind: core.CommandLeaveQueue}, nil
	case proto.InboundRoomJoin, proto.InboundSyncRequest, proto.InboundGameResign, proto.InboundGameRematch:
		var room proto.RoomData
		if protoErr := decodeData(inbound.Data, &room); protoErr != nil {
			return core.Command{}, protoErr
		}
		return core.Command{Kind: roomCommandKinds[inbound.Type], RoomID: room.RoomID}, nil
	case proto.InboundMoveMake:
		var move proto.MoveData
		if protoErr := decodeData(inbound.Data, &move); protoErr != nil {
			return core.Command{}, protoErr
		}
		from, to := strings.ToLower(strings.TrimSpace(move.From)), strings.ToLower(strings.TrimSpace(move.To))
		if from == "" || to == "" {
			return core.Command{}, errMoveFields
		}
		return core.Command{
			Kind:   core.CommandMakeMove,
			RoomID: move.RoomID,
			Move: core.Move{
				From:      from,
				To:        to,
				Promotion: strings.ToLower(strings.TrimSpace(move.Promotion)),
			},
		}, nil
	case proto.InboundMovesRequest:
		var moves proto.MovesData
		if protoErr := decodeData(inbound.Data, &moves); protoErr != nil {
			return core.Command{}, protoErr
		}
		square := strings.ToLower(strings.TrimSpace(moves.Square))
		if square == "" {
			return core.Command{}, errSquareRequired
		}
		return core.Command{Kind: core.CommandLegalMoves, RoomID: moves.RoomID, Square: square}, nil
	default:
		return core.Command{}, errUnknownType
	}
}

var roomCommandKinds = map[string]core.CommandKind{
	proto.InboundRoomJoin:    core.CommandJoinRoom,
	proto.InboundSyncRequest: core.CommandSyncRequest,
	proto.InboundGameResign:  core.CommandResign,
	proto.InboundGameRematch: core.CommandRematch,
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomState:
		s := event.State
		return proto.Outbound{
			Type: proto.OutboundRoomState,
			Data: proto.RoomState{
				RoomID:     s.RoomID,
				RoomStatus: string(s.RoomStatus),
				FEN:        s.FEN,
				PGN:        s.PGN,
				Turn:       string(s.Turn),
				Status:     s.StatusText,
				Players:    proto.Players{White: s.Players.White, Black: s.Players.Black},
				YouAre:     string(s.YouAre),
			},
		}
	case core.EventRejected:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundRejected, Data: proto.Rejected{Reason: "Unknown error"}}
		}
		return proto.Outbound{
			Type: proto.OutboundRejected,
			Data: proto.Rejected{Reason: event.Error.Message, Code: event.Error.Code},
		}
	case core.EventQueueStatus:
		return proto.Outbound{Type: proto.OutboundQueueStatus, Data: proto.QueueStatus{Searching: event.Searching}}
	case core.EventMatchFound:
		return proto.Outbound{Type: proto.OutboundMatchFound, Data: proto.MatchFound{RoomID: event.RoomID}}
	case core.EventGameEnded:
		return proto.Outbound{
			Type: proto.OutboundGameEnded,
			Data: proto.GameEnded{Result: event.Result.Result, Reason: event.Result.Reason},
		}
	case core.EventLegalMoves:
		targets := event.Targets
		if targets == nil {
			targets = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundMovesList,
			Data: proto.LegalMoves{RoomID: event.RoomID, Square: event.Square, Targets: targets},
		}
	default:
		return proto.Outbound{Type: "unknown"}
	}
}
