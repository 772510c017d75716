package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/phturb/domain-randomizer/model"
	modelwebsocket "github.com/phturb/domain-randomizer/model/websocket"
	"github.com/phturb/domain-randomizer/players"
)

// defaultWriteWait bounds every websocket write so a stalled client cannot
// hold the connection lock.
const defaultWriteWait = 10 * time.Second

type Options struct {
	Addr string
	// StaticDir is served as a single page app when it exists.
	StaticDir string
}

type server struct {
	opts Options
	srv  *http.Server
	up   *websocket.Upgrader
	repo players.Repository

	connsMu   sync.RWMutex
	conns     []*websocket.Conn
	writeWait time.Duration
}

func NewServer(repo players.Repository, opts Options) (*server, error) {
	if repo == nil {
		return nil, errors.New("players repository is required")
	}
	return &server{
		opts: opts,
		up: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Accepting all requests
			},
		},
		repo:      repo,
		writeWait: defaultWriteWait,
	}, nil
}

func (s *server) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	ps, err := s.repo.List(r.Context())
	if err != nil {
		slog.Error(fmt.Sprintf("[handleGetPlayers] - failed to read players : %s", err.Error()))
		http.Error(w, "failed to load players", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ps)
}

func (s *server) handlePostPlayers(w http.ResponseWriter, r *http.Request) {
	var p model.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		slog.Warn(fmt.Sprintf("[handlePostPlayers] - unable to decode player : %v", err))
		http.Error(w, "malformed player", http.StatusBadRequest)
		return
	}
	ps, err := s.repo.Upsert(r.Context(), p)
	if errors.Is(err, players.ErrBlankName) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error(fmt.Sprintf("[handlePostPlayers] - failed to save player '%s' : %s", p.Name, err.Error()))
		http.Error(w, "failed to save players", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ps)
	if err := s.broadcastPlayers(ps); err != nil {
		slog.Warn(fmt.Sprintf("[handlePostPlayers] - broadcast failed : %s", err.Error()))
	}
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
	http.Error(w, fmt.Sprintf("Method %s Not Allowed", r.Method), http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(fmt.Sprintf("[writeJSON] - failed to write response : %s", err.Error()))
	}
}

func playersMessage(ps []model.Player) (modelwebsocket.Message, error) {
	b, err := json.Marshal(ps)
	if err != nil {
		return modelwebsocket.Message{}, err
	}
	return modelwebsocket.Message{
		Action:  modelwebsocket.UpdatePlayers,
		Content: string(b),
	}, nil
}

func (s *server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		slog.Error(err.Error())
		return
	}
	defer conn.Close()
	s.addConn(conn)
	defer s.removeConn(conn)
	s.sendPlayers(r.Context(), conn)

	for {
		mt, m, err := conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			slog.Info(fmt.Sprintf("closing websocket connection err : %s", err))
			break
		}
		var wm modelwebsocket.Message
		if err := json.Unmarshal(m, &wm); err != nil {
			slog.Warn(fmt.Sprintf("unable to unmarshal the received message : %v", err))
			continue
		}
		action, err := modelwebsocket.ActionFromString(string(wm.Action))
		if err != nil || !slices.Contains(modelwebsocket.ClientActions, action) {
			slog.Warn(fmt.Sprintf("websocket action '%s' is not accepted from clients", wm.Action))
			continue
		}
		switch action {
		case modelwebsocket.RequestPlayers:
			s.sendPlayers(r.Context(), conn)
		default:
			slog.Warn(fmt.Sprintf("websocket action '%s' is not handled", wm.Action))
		}
	}
}

func (s *server) sendPlayers(ctx context.Context, conn *websocket.Conn) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		slog.Error(fmt.Sprintf("[sendPlayers] - failed to read players : %s", err.Error()))
		return
	}
	m, err := playersMessage(ps)
	if err != nil {
		slog.Error(fmt.Sprintf("[sendPlayers] - failed to serialize players : %s", err.Error()))
		return
	}
	// writes share the lock with broadcast, gorilla connections allow one writer
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if err := s.writeMessage(conn, m); err != nil {
		slog.Error(fmt.Sprintf("[sendPlayers] - %s", err.Error()))
	}
}

// writeMessage must be called with connsMu held.
func (s *server) writeMessage(conn *websocket.Conn, m any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(m)
}

func (s *server) addConn(conn *websocket.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns = append(s.conns, conn)
}

func (s *server) removeConn(conn *websocket.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for i, c := range s.conns {
		if c == conn {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			return
		}
	}
}

func (s *server) broadcastPlayers(ps []model.Player) error {
	m, err := playersMessage(ps)
	if err != nil {
		return err
	}
	return s.broadcast(m)
}

func (s *server) broadcast(m any) error {
	slog.Info("[broadcast] - broadcasting message")
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	var errs []error
	kept := s.conns[:0]
	for _, c := range s.conns {
		if err := s.writeMessage(c, m); err != nil {
			// a failed or timed out write leaves the connection unusable
			errs = append(errs, err)
			c.Close()
			continue
		}
		kept = append(kept, c)
	}
	clear(s.conns[len(kept):])
	s.conns = kept
	return errors.Join(errs...)
}

func spaHandler(staticPath string, indexPath string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// Join internally call path.Clean to prevent directory traversal
		path := filepath.Join(staticPath, r.URL.Path)

		fi, err := os.Stat(path)
		if os.IsNotExist(err) || (err == nil && fi.IsDir()) {
			http.ServeFile(w, r, filepath.Join(staticPath, indexPath))
			return
		}

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.FileServer(http.Dir(staticPath)).ServeHTTP(w, r)
	}
}

// Handler builds the routed and CORS wrapped handler.
func (s *server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true})
	})
	router.HandleFunc("/players", s.handleGetPlayers).Methods(http.MethodGet)
	router.HandleFunc("/players", s.handlePostPlayers).Methods(http.MethodPost)
	router.HandleFunc("/players", handleMethodNotAllowed)
	router.HandleFunc("/ws", s.handleWebsocket)
	if s.opts.StaticDir != "" {
		if fi, err := os.Stat(s.opts.StaticDir); err == nil && fi.IsDir() {
			slog.Info(fmt.Sprintf("serving static files from '%s'", s.opts.StaticDir))
			router.PathPrefix("/").HandlerFunc(spaHandler(s.opts.StaticDir, "index.html"))
		}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// only CORS preflights are answered by the middleware, a bare OPTIONS
		// goes through the routes like any other method
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") == "" {
			router.ServeHTTP(w, r)
			return
		}
		cors.ServeHTTP(w, r)
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *server) Start(ctx context.Context) error {
	slog.Info("starting server on " + s.opts.Addr)
	slog.Info("handling websocket on path : '/ws'")
	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         s.opts.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConns()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *server) closeConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
}
