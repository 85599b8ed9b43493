package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxMessageSize = 1024
)

// client is one websocket connection. Only its write loop writes to the connection.
type client struct {
	conn *websocket.Conn

	// holds at most the latest unsent state
	states  chan entity.Snapshot
	replies chan Message
	// closed by the reader when it is finished
	done chan struct{}
	// closed by the write loop when it returns
	stopped chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		states:  make(chan entity.Snapshot, 1),
		replies: make(chan Message, 8),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// push replaces any pending state with the new one. Calls are serialized by the session lock.
func (that *client) push(snapshot entity.Snapshot) {
	select {
	case <-that.states:
	default:
	}

	select {
	case that.states <- snapshot:
	default:
	}
}

// reply queues a message for the write loop and drops it once nobody writes anymore.
func (that *client) reply(message Message) {
	select {
	case that.replies <- message:
	case <-that.done:
	case <-that.stopped:
	}
}

// writeLoop sends queued messages until the reader is done. A failed write closes the
// connection so the reader stops too.
func (that *client) writeLoop() (err error) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	defer func() {
		if err != nil {
			_ = that.conn.Close()
		}
		close(that.stopped)
	}()

	for {
		select {
		case snapshot := <-that.states:
			message, err := newMessage(actionState, snapshot)
			if err != nil {
				return err
			}
			if err = that.write(message); err != nil {
				return err
			}
		case message := <-that.replies:
			if err := that.write(message); err != nil {
				return err
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-that.done:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		}
	}
}

func (that *client) write(message Message) error {
	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return that.conn.WriteJSON(message)
}
