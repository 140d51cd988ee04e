package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"go.uber.org/zap"
)

// User is one websocket connection streaming route requests. Every text frame carries one shortestPathRequest
// and is answered with one frame holding either {"data": route} or {"error": ...}.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) readRequest() (*shortestPathRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	req := &shortestPathRequest{}
	if err := json.Unmarshal(payload, req); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid route request")
	}
	return req, nil
}

// ComputeRoute reads one frame and answers it. A returned error means the connection is unusable.
func (u *User) ComputeRoute(ctx context.Context) error {
	req, err := u.readRequest()
	if err != nil {
		var uerr *util.Error
		if errors.As(err, &uerr) {
			return u.writeError(err)
		}
		return err
	}
	if req == nil {
		return nil
	}

	if err := validateStruct(req); err != nil {
		return u.writeError(err)
	}

	res, err := u.hub.routingService.ShortestPath(ctx, req.OriginLat, req.OriginLon,
		req.DestinationLat, req.DestinationLon)
	if err != nil {
		return u.writeError(err)
	}

	return u.write(envelope{"data": NewShortestPathResponse(res)})
}

func (u *User) writeError(err error) error {
	status := statusCodeOf(err)
	return u.write(errorResponse{Error: errorBody{Code: statusText(status), Message: err.Error()}})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

type Hub struct {
	mu             sync.RWMutex
	seq            uint
	ns             map[uint]*User
	routingService RoutingService
	log            *zap.Logger
}

func NewHub(routingService RoutingService, log *zap.Logger) *Hub {
	return &Hub{
		ns:             make(map[uint]*User),
		routingService: routingService,
		log:            log,
	}
}

func (h *Hub) Register(conn io.ReadWriteCloser) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)
	user.conn.Close()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.ns)
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, 0, len(h.ns))
	for _, u := range h.ns {
		users = append(users, u)
	}
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

// Serve answers route requests on conn until the peer goes away or ctx is done.
func (h *Hub) Serve(ctx context.Context, conn net.Conn) {
	user := h.Register(conn)
	defer h.Remove(user)

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		if err := user.ComputeRoute(ctx); err != nil {
			var closed wsutil.ClosedError
			if !errors.As(err, &closed) && !errors.Is(err, io.EOF) && ctx.Err() == nil {
				h.log.Warn("websocket route stream stopped", zap.Uint("user", user.id), zap.Error(err))
			}
			return
		}
	}
}

// HandleWebsocket upgrades GET /ws/routes.
func (h *Hub) HandleWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.log.Info("upgrade error", zap.Error(err))
		return
	}
	h.log.Info("established websocket connection", zap.String("remote", conn.RemoteAddr().String()),
		zap.String("protocol", hs.Protocol))

	h.Serve(r.Context(), conn)
}
