package core

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechess-server/internal/game"
	"github.com/vovakirdan/wirechess-server/internal/utils"
)

const (
	DefaultRoomTTL      = 2 * time.Minute
	DefaultReapInterval = 30 * time.Second

	inboundBuffer = 256
)

// Options tunes a Hub. Zero values select defaults.
type Options struct {
	RoomTTL      time.Duration
	ReapInterval time.Duration

	// Now is the clock used for activity timestamps and reaping.
	Now func() time.Time
	// Coin decides colors for a matched pair: true seats the longer waiting
	// player as white.
	Coin        func() bool
	NewEngine   game.Factory
	NewRoomCode func() string
}

type envelope struct {
	client *Client
	cmd    Command
}

type handlerFunc func(h *Hub, c *Client, cmd Command)

// Hub is the session coordinator. Every mutation of rooms, the queue and
// room subscriptions happens on the goroutine running Run, so none of that
// state needs locking.
type Hub struct {
	registry *Registry
	queue    *Queue
	clients  map[string]*Client
	// channels maps a room id to the connections subscribed to its broadcasts.
	channels map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	inbound    chan envelope
	queries    chan func()
	done       chan struct{}

	handlers     map[CommandKind]handlerFunc
	now          func() time.Time
	coin         func() bool
	ttl          time.Duration
	reapInterval time.Duration
	log          *zerolog.Logger
}

// NewHub creates a hub with empty registry and queue.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Coin == nil {
		opts.Coin = func() bool { return rand.IntN(2) == 0 }
	}
	if opts.NewRoomCode == nil {
		opts.NewRoomCode = utils.NewRoomCode
	}
	if opts.RoomTTL <= 0 {
		opts.RoomTTL = DefaultRoomTTL
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = DefaultReapInterval
	}

	h := &Hub{
		registry:     NewRegistry(opts.NewEngine, opts.NewRoomCode, opts.Now),
		queue:        NewQueue(),
		clients:      make(map[string]*Client),
		channels:     make(map[string]map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan envelope, inboundBuffer),
		queries:      make(chan func()),
		done:         make(chan struct{}),
		now:          opts.Now,
		coin:         opts.Coin,
		ttl:          opts.RoomTTL,
		reapInterval: opts.ReapInterval,
		log:          logger,
	}
	h.handlers = map[CommandKind]handlerFunc{
		CommandCreateRoom:  (*Hub).handleCreateRoom,
		CommandJoinRoom:    (*Hub).handleJoinRoom,
		CommandJoinQueue:   (*Hub).handleJoinQueue,
		CommandLeaveQueue:  (*Hub).handleLeaveQueue,
		CommandMakeMove:    (*Hub).handleMakeMove,
		CommandSyncRequest: (*Hub).handleSyncRequest,
		CommandResign:      (*Hub).handleResign,
		CommandRematch:     (*Hub).handleRematch,
		CommandLegalMoves:  (*Hub).handleLegalMoves,
	}
	return h
}

// Run processes connections, commands, queries and reaper ticks until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(h.reapInterval)
	defer ticker.Stop()

	h.log.Info().Dur("room_ttl", h.ttl).Dur("reap_interval", h.reapInterval).Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("rooms", h.registry.Len()).Msg("hub stopped")
			return
		case c := <-h.register:
			h.connect(c)
		case c := <-h.unregister:
			h.disconnect(c)
		case env := <-h.inbound:
			h.handle(env.client, env.cmd)
		case fn := <-h.queries:
			fn()
		case <-ticker.C:
			h.reap(h.now())
		}
	}
}

// RegisterClient attaches a connection. Commands submitted after it returns
// are processed after the registration.
func (h *Hub) RegisterClient(ctx context.Context, c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// UnregisterClient detaches a connection: it leaves the queue and all room
// channels, and the rooms it plays in are touched.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit hands a command to the loop.
func (h *Hub) Submit(ctx context.Context, c *Client, cmd Command) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.inbound <- envelope{client: c, cmd: cmd}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// Rooms returns summaries of all live rooms.
func (h *Hub) Rooms(ctx context.Context) ([]RoomSummary, error) {
	var out []RoomSummary
	err := h.do(ctx, func() {
		rooms := h.registry.List()
		out = make([]RoomSummary, 0, len(rooms))
		for _, room := range rooms {
			out = append(out, h.summary(room))
		}
	})
	return out, err
}

// Room returns the summary of one room or ErrRoomNotFound.
func (h *Hub) Room(ctx context.Context, roomID string) (RoomSummary, error) {
	var (
		out   RoomSummary
		found bool
	)
	err := h.do(ctx, func() {
		if room, ok := h.registry.Get(utils.NormalizeRoomCode(roomID)); ok {
			out, found = h.summary(room), true
		}
	})
	if err != nil {
		return RoomSummary{}, err
	}
	if !found {
		return RoomSummary{}, ErrRoomNotFound
	}
	return out, nil
}

// do runs fn on the loop goroutine and waits for it.
func (h *Hub) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case h.queries <- func() { fn(); close(finished) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) summary(room *Room) RoomSummary {
	return RoomSummary{
		RoomID:       room.ID,
		Status:       room.Status,
		Players:      room.Players,
		FEN:          room.Board.FEN(),
		Occupants:    len(h.channels[room.ID]),
		CreatedAt:    room.CreatedAt,
		LastActiveAt: room.LastActiveAt,
	}
}

func (h *Hub) connect(c *Client) {
	h.clients[c.ID] = c
	h.log.Debug().Str("conn_id", c.ID).Str("client_id", c.ClientID).Msg("client connected")
}

func (h *Hub) disconnect(c *Client) {
	if cur, ok := h.clients[c.ID]; !ok || cur != c {
		return
	}
	delete(h.clients, c.ID)
	h.queue.Dequeue(c.ID)
	for roomID := range c.rooms {
		h.unsubscribe(c, roomID)
	}
	// Rooms measure idleness from the last player connection going away.
	for _, room := range h.registry.List() {
		if room.HasPlayer(c.ClientID) {
			h.registry.Touch(room)
		}
	}
	h.log.Debug().Str("conn_id", c.ID).Str("client_id", c.ClientID).Msg("client disconnected")
}

func (h *Hub) handle(c *Client, cmd Command) {
	if _, ok := h.clients[c.ID]; !ok {
		h.log.Debug().Str("conn_id", c.ID).Stringer("command", cmd.Kind).Msg("dropping command from unregistered client")
		return
	}
	fn, ok := h.handlers[cmd.Kind]
	if !ok {
		h.reject(c, NewError(ErrCodeBadRequest, "Unknown command"))
		return
	}
	fn(h, c, cmd)
}

// lookupRoom resolves the command's room or rejects the caller.
func (h *Hub) lookupRoom(c *Client, roomID string) (*Room, bool) {
	code := utils.NormalizeRoomCode(roomID)
	if code == "" {
		h.reject(c, ErrEmptyRoomCode)
		return nil, false
	}
	room, ok := h.registry.Get(code)
	if !ok {
		h.reject(c, ErrRoomNotFound)
		return nil, false
	}
	return room, true
}

func (h *Hub) handleCreateRoom(c *Client, _ Command) {
	room, err := h.registry.CreateUnique(c.ClientID)
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ClientID).Msg("failed to create room")
		h.reject(c, errInternal)
		return
	}
	h.subscribe(c, room.ID)
	h.log.Info().Str("room_id", room.ID).Str("client_id", c.ClientID).Msg("room created")
	h.broadcastRoom(room)
}

func (h *Hub) handleJoinRoom(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	role := room.Join(c.ClientID)
	h.subscribe(c, room.ID)
	h.log.Info().Str("room_id", room.ID).Str("client_id", c.ClientID).Str("role", string(role)).Msg("joined room")
	h.broadcastRoom(room)
}

func (h *Hub) handleJoinQueue(c *Client, _ Command) {
	if !h.queue.Enqueue(QueueEntry{ConnID: c.ID, ClientID: c.ClientID, JoinedAt: h.now()}) {
		h.send(c, &Event{Kind: EventQueueStatus, Searching: true})
		return
	}
	h.send(c, &Event{Kind: EventQueueStatus, Searching: true})
	h.matchQueued()
}

// matchQueued pairs waiting connections until fewer than two remain. A pair
// with a member that is gone is discarded and its live member goes back to
// the head of the queue.
func (h *Hub) matchQueued() {
	for {
		first, second, ok := h.queue.PopPair()
		if !ok {
			return
		}
		a, aLive := h.clients[first.ConnID]
		b, bLive := h.clients[second.ConnID]
		if !aLive || !bLive {
			h.log.Warn().Str("first", first.ConnID).Str("second", second.ConnID).Msg("discarding pair with disconnected member")
			if aLive {
				h.queue.Requeue(first)
			}
			if bLive {
				h.queue.Requeue(second)
			}
			continue
		}

		white, black := first.ClientID, second.ClientID
		if !h.coin() {
			white, black = black, white
		}
		room, err := h.registry.CreateUnique(white)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to create room for matched pair")
			for _, cl := range []*Client{a, b} {
				h.reject(cl, errInternal)
				h.send(cl, &Event{Kind: EventQueueStatus, Searching: false})
			}
			continue
		}
		room.SetPlayers(white, black)

		for _, cl := range []*Client{a, b} {
			h.subscribe(cl, room.ID)
			h.send(cl, &Event{Kind: EventMatchFound, RoomID: room.ID})
			h.send(cl, &Event{Kind: EventQueueStatus, Searching: false})
		}
		h.log.Info().Str("room_id", room.ID).Str("white", white).Str("black", black).Msg("match found")
		h.broadcastRoom(room)
	}
}

func (h *Hub) handleLeaveQueue(c *Client, _ Command) {
	h.queue.Dequeue(c.ID)
	h.send(c, &Event{Kind: EventQueueStatus, Searching: false})
}

func (h *Hub) handleMakeMove(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	result, err := room.ApplyMove(c.ClientID, cmd.Move)
	if err != nil {
		h.reject(c, asCoreError(err))
		return
	}
	h.subscribe(c, room.ID)
	h.broadcastRoom(room)
	if result != nil {
		h.log.Info().Str("room_id", room.ID).Str("result", result.Result).Str("reason", result.Reason).Msg("game ended")
		h.emitRoom(room.ID, &Event{Kind: EventGameEnded, RoomID: room.ID, Result: result})
	}
}

func (h *Hub) handleSyncRequest(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	h.subscribe(c, room.ID)
	h.broadcastRoom(room)
}

func (h *Hub) handleResign(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	result, err := room.Resign(c.ClientID)
	if err != nil {
		h.reject(c, asCoreError(err))
		return
	}
	h.subscribe(c, room.ID)
	h.log.Info().Str("room_id", room.ID).Str("client_id", c.ClientID).Msg("player resigned")
	h.emitRoom(room.ID, &Event{Kind: EventGameEnded, RoomID: room.ID, Result: &result})
	h.broadcastRoom(room)
}

func (h *Hub) handleRematch(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	if err := room.Rematch(c.ClientID); err != nil {
		h.reject(c, asCoreError(err))
		return
	}
	h.subscribe(c, room.ID)
	h.log.Info().Str("room_id", room.ID).Str("status", string(room.Status)).Msg("rematch started")
	h.broadcastRoom(room)
}

func (h *Hub) handleLegalMoves(c *Client, cmd Command) {
	room, ok := h.lookupRoom(c, cmd.RoomID)
	if !ok {
		return
	}
	h.send(c, &Event{
		Kind:    EventLegalMoves,
		RoomID:  room.ID,
		Square:  cmd.Square,
		Targets: room.Board.LegalDestinations(cmd.Square),
	})
}
