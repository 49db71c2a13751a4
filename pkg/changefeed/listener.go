package changefeed

import (
	"log"
	"time"

	"github.com/lib/pq"
)

const channel = "grid_changes"

// Listen attaches a Postgres LISTEN connection to the hub and pumps
// notifications until the process exits. The notification payload is the
// table name emitted by the grid_notify_change trigger.
//
// Runs in its own goroutine; connection drops are handled by lib/pq's
// reconnect logic and logged via the event callback.
func Listen(dsn string, hub *Hub) error {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("changefeed: listener event %v: %v", ev, err)
			}
		})
	if err := listener.Listen(channel); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case n := <-listener.Notify:
				// nil notification means the connection was re-established;
				// state may have changed meanwhile, so invalidate everything.
				if n == nil {
					hub.Publish("reports")
					hub.Publish("outages")
					continue
				}
				hub.Publish(n.Extra)
			case <-time.After(90 * time.Second):
				go func() {
					if err := listener.Ping(); err != nil {
						log.Printf("changefeed: ping failed: %v", err)
					}
				}()
			}
		}
	}()
	return nil
}
