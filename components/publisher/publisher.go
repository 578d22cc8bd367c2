// Package publisher broadcasts the state of the robot each tick: joint
// positions, the pose of the base in the world frame, and whichever map frames
// are currently localized. Clients subscribe over a websocket; prometheus
// metrics are served alongside.
package publisher

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/math3d"
	"github.com/adammck/legged/stats"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "publisher",
})

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Transform is the pose of the child frame in the parent frame.
type Transform struct {
	Parent      string     `json:"parent"`
	Child       string     `json:"child"`
	Translation [3]float64 `json:"translation"`
	Rotation    [4]float64 `json:"rotation"` // w, x, y, z
}

func makeTransform(parent, child string, p math3d.Pose) Transform {
	q := p.Rotation.Quaternion()
	return Transform{
		Parent:      parent,
		Child:       child,
		Translation: [3]float64{p.Position.X, p.Position.Y, p.Position.Z},
		Rotation:    [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
	}
}

type Message struct {
	Time       time.Time             `json:"time"`
	Joints     map[string]float64    `json:"joints"`
	Transforms []Transform           `json:"transforms"`
	Feet       map[string][3]float64 `json:"feet"`
}

type Publisher struct {
	adapter  adapter.Adapter
	addr     string
	interval time.Duration

	// Prepended to child frame ids, to tell robots apart.
	FramePrefix string

	mu     sync.RWMutex
	latest *Message

	server *http.Server
	done   chan struct{}
}

// New returns a publisher which serves on addr (e.g. ":8080"), and pushes to
// each subscriber fps times per second. An empty addr builds messages without
// serving them.
func New(a adapter.Adapter, addr string, fps int) *Publisher {
	if fps <= 0 {
		fps = 1
	}

	return &Publisher{
		adapter:  a,
		addr:     addr,
		interval: time.Second / time.Duration(fps),
		done:     make(chan struct{}),
	}
}

// Boot starts the HTTP server in the background.
func (p *Publisher) Boot() error {
	if p.addr == "" {
		return nil
	}

	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", p.addr)
	}

	p.server = &http.Server{Handler: p.Router()}
	log.Infof("serving state on %s", ln.Addr())

	go func() {
		err := p.server.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("server: %v", err)
		}
	}()

	return nil
}

// Tick builds a message from the current state, which will be sent to every
// subscriber.
func (p *Publisher) Tick(now time.Time, state *legged.State) error {
	msg, err := p.Build(now, state)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.latest = msg
	p.mu.Unlock()

	return nil
}

// Build returns the message for the given state. It fails if the joint names
// and positions don't line up.
func (p *Publisher) Build(now time.Time, state *legged.State) (*Message, error) {
	joints, err := state.Joints()
	if err != nil {
		return nil, err
	}

	world := p.adapter.WorldFrameID()
	base := math3d.MakePose(state.PositionWorldToBaseInWorldFrame(), state.OrientationBaseToWorld())

	msg := &Message{
		Time:   now,
		Joints: joints,
		Transforms: []Transform{
			makeTransform(world, p.FramePrefix+p.adapter.BaseFrameID(), base),
		},
		Feet: map[string][3]float64{},
	}

	for _, id := range p.adapter.AvailableFrameTransforms() {
		t, err := p.adapter.FrameTransform(id)
		if err != nil {
			log.Warnf("transform to %s went away: %v", id, err)
			continue
		}

		msg.Transforms = append(msg.Transforms, makeTransform(world, p.FramePrefix+id, t))
	}

	for _, l := range state.Feet.Limbs() {
		v := state.Feet[l]
		msg.Feet[l.String()] = [3]float64{v.X, v.Y, v.Z}
	}

	return msg, nil
}

// Latest returns the most recent message, or nil before the first tick.
func (p *Publisher) Latest() *Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

func (p *Publisher) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(stats.Registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/state", p.websocketHandler)
	return r
}

func (p *Publisher) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last *Message
	for {
		select {
		case <-p.done:
			return

		case <-ticker.C:
			msg := p.Latest()
			if msg == nil || msg == last {
				continue
			}

			if err := conn.WriteJSON(msg); err != nil {
				return
			}
			last = msg
		}
	}
}

// Close stops the server, and disconnects subscribers.
func (p *Publisher) Close() error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}

	if p.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}
