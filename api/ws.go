package api

import (
	"context"
	"encoding/json"
	"net/http"

	"daneth-messenger/auth"
	"daneth-messenger/domain"
	"daneth-messenger/sink"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// The REST layer already serves any origin; the socket follows.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleSocket owns one client connection for its whole lifetime. A
// valid token registers the identity's sink in the presence registry;
// a missing or invalid token still gets a connection, just no presence
// entry (anonymous sockets can send and receive broadcasts only).
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	identity := s.identityFromHandshake(r)
	connectionSink := sink.NewBuffered(s.log, s.connectionBufferSize)

	if !identity.Anonymous() {
		s.registry.Register(identity.ID, connectionSink)
		defer s.registry.Unregister(identity.ID, connectionSink)
		s.log.Info("Client connected", "user", identity.Username)
	} else {
		s.log.Info("Anonymous client connected", "remote", r.RemoteAddr)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writePump(ctx, conn, connectionSink)
	s.readPump(ctx, conn, identity, connectionSink)
}

// identityFromHandshake accepts a token from the `token` query parameter
// or the Authorization header. Failed auth does not block the
// connection; the socket simply stays anonymous.
func (s *Server) identityFromHandshake(r *http.Request) domain.Identity {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = auth.BearerToken(r)
	}
	if token == "" {
		return domain.Identity{}
	}
	identity, err := s.issuer.Validate(token)
	if err != nil {
		s.log.Debug("Socket token rejected, continuing anonymous", "error", err)
		return domain.Identity{}
	}
	return identity
}

// readPump dispatches inbound frames until the client goes away. Errors
// from the engine are logged and dropped: the socket path is
// fire-and-forget, there is no response frame to carry them.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn,
	identity domain.Identity, origin *sink.Buffered) {
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			s.log.Debug("Client disconnected", "user", identity.Username, "error", err)
			return
		}

		switch frame.Event {
		case "send_message":
			var payload sendPayload
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				s.log.Debug("Malformed send_message frame", "error", err)
				continue
			}
			intent := domain.SendIntent{
				Sender:      senderIdentity(identity, payload.Sender),
				Recipient:   payload.Recipient,
				RecipientID: payload.RecipientID,
				Content:     payload.Content,
			}
			if _, err := s.messenger.Send(ctx, intent, origin); err != nil {
				s.log.Warn("Send over socket failed", "user", intent.Sender.Username, "error", err)
			}
		case "message_read":
			var payload readPayload
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				s.log.Debug("Malformed message_read frame", "error", err)
				continue
			}
			if err := s.messenger.MarkRead(ctx, payload.MessageID, identity); err != nil {
				s.log.Warn("Read signal failed", "message_id", payload.MessageID, "error", err)
			}
		default:
			s.log.Debug("Unknown socket event", "event", frame.Event)
		}
	}
}

// writePump is the only writer on the connection; it drains the sink
// until the connection context ends.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, connectionSink *sink.Buffered) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-connectionSink.Events:
			if err := conn.WriteJSON(encodeEvent(e)); err != nil {
				s.log.Debug("Failed to push event to socket", "event", e.Name(), "error", err)
				return
			}
		}
	}
}

// senderIdentity resolves who a frame speaks for: an unauthenticated
// frame may name its sender, defaulting to "Unknown".
func senderIdentity(identity domain.Identity, claimed string) domain.Identity {
	if !identity.Anonymous() {
		return identity
	}
	if claimed == "" {
		claimed = "Unknown"
	}
	return domain.Identity{Username: claimed}
}
