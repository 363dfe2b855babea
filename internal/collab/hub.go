package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/floorline/floorline/backend-go/internal/document"
)

const (
	loadTimeout  = 5 * time.Second
	saveTimeout  = 10 * time.Second
	saveInterval = 30 * time.Second
)

// DocumentLoader fetches the saved layout for a project when its room
// spins up.
type DocumentLoader func(ctx context.Context, projectID string) (*document.LayoutDocument, error)

// DocumentSaver persists a room's layout.
type DocumentSaver func(ctx context.Context, projectID string, doc *document.LayoutDocument) error

type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *RoomState
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	loader     DocumentLoader
	saver      DocumentSaver
}

func NewHub(loader DocumentLoader, saver DocumentSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveRooms()
		case <-h.stop:
			h.saveRooms()
			close(h.done)
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Stop flushes every room to storage and shuts the hub down. It blocks
// until the run loop has exited.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) newRoom(projectID string) *Room {
	var doc *document.LayoutDocument
	if h.loader != nil {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		loaded, err := h.loader(ctx, projectID)
		if err != nil {
			slog.Error("load layout for room", "project", projectID, "error", err)
		} else {
			doc = loaded
		}
	}
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     NewRoomState(doc),
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		room = h.newRoom(client.ProjectID)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Catch the newcomer up before peers start talking to them.
	welcome, _ := json.Marshal(WelcomePayload{
		ClientID:  client.ClientID,
		ServerSeq: room.state.ServerSeq(),
	})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})

	docSync, err := json.Marshal(DocSyncPayload{
		Document:  room.state.Snapshot(),
		ServerSeq: room.state.ServerSeq(),
	})
	if err != nil {
		slog.Error("marshal doc sync", "project", client.ProjectID, "error", err)
	} else {
		client.Send(&Message{Type: TypeDocSync, Payload: docSync})
	}

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.ProjectID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.ProjectID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	} else {
		// Broadcast leave to remaining clients
		leavePayload, _ := json.Marshal(PresenceLeavePayload{
			UserID: client.UserID,
		})
		leaveMsg := &Message{
			Type:    TypePresenceLeave,
			UserID:  client.UserID,
			Payload: leavePayload,
		}
		h.broadcastToRoom(client.ProjectID, leaveMsg, "")
	}

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) saveRooms() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if h.saver == nil || !room.state.Dirty() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := h.saver(ctx, room.projectID, room.state.Snapshot()); err != nil {
		slog.Error("save layout", "project", room.projectID, "error", err)
		return
	}
	room.state.ClearDirty()
	slog.Info("layout saved", "project", room.projectID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.SendError("invalid op.submit payload")
		return
	}
	op := submit.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	res, err := room.state.Apply(op)
	if err != nil {
		nack, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nack})
		return
	}

	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       res.ServerSeq,
		ServerTimestamp: serverTimestamp(),
		Object:          res.Object,
		Events:          res.Events,
	})
	sender.Send(&Message{Type: TypeOpAck, Seq: res.ServerSeq, Payload: ack})

	// Peers need the server-assigned id for placements.
	if res.Object != nil {
		op.ObjectID = res.Object.ID
	}
	bcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: res.ServerSeq,
		Object:    res.Object,
		Events:    res.Events,
	})
	bcastMsg := &Message{Type: TypeOpBroadcast, UserID: sender.UserID, Seq: res.ServerSeq, Payload: bcast}
	h.broadcastToRoom(sender.ProjectID, bcastMsg, sender.ClientID)
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.ProjectID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[projectID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func serverTimestamp() int64 {
	return time.Now().UnixMilli()
}
