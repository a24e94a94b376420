// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
	"github.com/flamingo-finance/IdoContract/xenv"
)

var logger = log.New("pkg", "subscriptions")

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
	writeWait  = 10 * time.Second
)

// Event is pushed for every matching event of a committed invocation.
type Event struct {
	Invocation ido.Bytes32       `json:"invocation"`
	Index      uint32            `json:"index"`
	Height     uint32            `json:"height"`
	Address    ido.Address       `json:"address"`
	Name       string            `json:"name"`
	Account    *ido.Address      `json:"account,omitempty"`
	Project    *ido.Address      `json:"project,omitempty"`
	Amount     *builtin.Amount   `json:"amount,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

type eventFilter struct {
	address *ido.Address
	name    string
	account *ido.Address
	project *ido.Address
}

func (f *eventFilter) match(ev *xenv.Event) bool {
	if f.address != nil && *f.address != ev.Address {
		return false
	}
	if f.name != "" && f.name != ev.Name {
		return false
	}
	if f.account != nil && (ev.Account == nil || *f.account != *ev.Account) {
		return false
	}
	if f.project != nil && (ev.Project == nil || *f.project != *ev.Project) {
		return false
	}
	return true
}

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) parseFilter(req *http.Request) (*eventFilter, error) {
	var (
		f   eventFilter
		err error
	)
	if f.address, err = utils.AddressQuery(req, "address"); err != nil {
		return nil, err
	}
	if f.account, err = utils.AddressQuery(req, "account"); err != nil {
		return nil, err
	}
	if f.project, err = utils.AddressQuery(req, "project"); err != nil {
		return nil, err
	}
	f.name = req.URL.Query().Get("name")
	return &f, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := s.parseFilter(req)
	if err != nil {
		return err
	}
	// subscribe first so nothing committed after the handshake is missed
	receipts := make(chan *runtime.Receipt, 16)
	sub := s.rt.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			if err != nil {
				logger.Debug("subscription failed", "err", err)
			}
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case receipt := <-receipts:
			for i, ev := range receipt.Events {
				if !filter.match(ev) {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(&Event{
					Invocation: receipt.ID,
					Index:      uint32(i),
					Height:     receipt.Height,
					Address:    ev.Address,
					Name:       ev.Name,
					Account:    ev.Account,
					Project:    ev.Project,
					Amount:     (*builtin.Amount)(ev.Amount),
					Attrs:      ev.Attrs,
				}); err != nil {
					return nil
				}
			}
		}
	}
}

// Close disconnects all subscribers and waits for them.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
