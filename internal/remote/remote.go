// Package remote lets an external editor drive the preview over a websocket:
// push shader source, control playback and the camera, and receive the
// compiler output.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/session"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
)

// Controller is the part of the session remote editors may drive.
type Controller interface {
	Recompile(source string) error
	PlayPause()
	Stop()
	Scrub(delta float64)
	SetLoop(start, end float64, mode string) error
	SetCamera(rotation mgl32.Vec2, zoom float32, origin mgl32.Vec3) error
	SetQuadView(enabled bool, split mgl32.Vec2)
	SetRenderMode(mode int32)
	Status() session.Status
}

// Message is an inbound command. Mode is a loop mode name for "loop" and a
// render mode number for "mode".
type Message struct {
	Type     string          `json:"type"`
	Source   string          `json:"source"`
	Delta    float64         `json:"delta"`
	Start    float64         `json:"start"`
	End      float64         `json:"end"`
	Mode     json.RawMessage `json:"mode"`
	Rotation [2]float32      `json:"rotation"`
	Zoom     float32         `json:"zoom"`
	Origin   [3]float32      `json:"origin"`
	Enabled  bool            `json:"enabled"`
	Split    [2]float32      `json:"split"`
}

type Output struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

type StatusMessage struct {
	Type string `json:"type"`
	session.Status
}

// writeWait bounds every write so a stalled editor cannot block the render
// thread.
var writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Editors connect from arbitrary local origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	ctl  Controller
	post func(fn func())

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex
}

// New returns a server that runs every command through post, which must
// execute fn on the render thread.
func New(ctl Controller, post func(fn func())) *Server {
	return &Server{
		ctl:     ctl,
		post:    post,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.closeAll()
	}()

	logx.Logger().Info("remote bridge listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	logx.Logger().Info("remote editor connected", "addr", conn.RemoteAddr().String())
	s.post(func() { s.sendStatus(conn) })

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Logger().Warn("remote editor read failed", "err", err)
			}
			return
		}
		s.post(func() {
			if msg.Type == "status" {
				s.sendStatus(conn)
				return
			}
			if err := s.dispatch(msg); err != nil {
				s.send(conn, Output{Type: "output", Text: err.Error(), Error: true})
			}
		})
	}
}

// dispatch applies msg. Recompile failures are not returned: they already
// reach every editor through the output channel.
func (s *Server) dispatch(msg Message) error {
	switch msg.Type {
	case "source":
		s.ctl.Recompile(msg.Source)
	case "play":
		s.ctl.PlayPause()
	case "stop":
		s.ctl.Stop()
	case "scrub":
		s.ctl.Scrub(msg.Delta)
	case "loop":
		var mode string
		if err := json.Unmarshal(msg.Mode, &mode); err != nil {
			return fmt.Errorf("invalid loop mode %s", msg.Mode)
		}
		return s.ctl.SetLoop(msg.Start, msg.End, mode)
	case "camera":
		return s.ctl.SetCamera(mgl32.Vec2(msg.Rotation), msg.Zoom, mgl32.Vec3(msg.Origin))
	case "quad":
		s.ctl.SetQuadView(msg.Enabled, mgl32.Vec2(msg.Split))
	case "mode":
		var mode int32
		if err := json.Unmarshal(msg.Mode, &mode); err != nil {
			return fmt.Errorf("invalid render mode %s", msg.Mode)
		}
		s.ctl.SetRenderMode(mode)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Server) sendStatus(conn *websocket.Conn) {
	s.send(conn, StatusMessage{Type: "status", Status: s.ctl.Status()})
}

func (s *Server) send(conn *websocket.Conn, v any) {
	s.clientsMutex.RLock()
	mutex, ok := s.clients[conn]
	s.clientsMutex.RUnlock()
	if !ok {
		return
	}
	mutex.Lock()
	defer mutex.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		logx.Logger().Debug("remote editor write failed", "err", err)
	}
}

// Broadcast sends an output line to every connected editor. Its signature
// matches output.Target.
func (s *Server) Broadcast(text string, isErr bool) {
	msg := Output{Type: "output", Text: text, Error: isErr}

	s.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		client.SetWriteDeadline(time.Now().Add(writeWait))
		err := client.WriteJSON(msg)
		mutex.Unlock()
		if err != nil {
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMutex.RUnlock()

	if len(clientsToRemove) > 0 {
		s.clientsMutex.Lock()
		for _, client := range clientsToRemove {
			delete(s.clients, client)
			client.Close()
		}
		s.clientsMutex.Unlock()
	}
}

func (s *Server) clientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) closeAll() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for client := range s.clients {
		client.Close()
	}
}
