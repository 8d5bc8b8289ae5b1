package livereload

// EventType is the kind of message pushed to connected pages.
type EventType string

const (
	// EvtReload tells the page to reload itself after a rebuild.
	EvtReload EventType = "reload"
	// EvtHello is sent once after a client connects.
	EvtHello EventType = "hello"
)

// Message is the structure pushed over the WebSocket to connected pages.
type Message struct {
	Type EventType `json:"type"`
	Path string    `json:"path,omitempty"` // Bundle path that changed, for EvtReload
}
