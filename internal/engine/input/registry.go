package input

// ListenerID identifies a registered listener.
type ListenerID uint64

// Handler receives one event.
type Handler func(Event)

type listener struct {
	id      ListenerID
	match   func(Event) bool
	handler Handler
}

// Registry fans events out to listeners. Listeners may register or remove
// listeners, including themselves, while an event is being dispatched.
// Registry is not safe for concurrent use.
type Registry struct {
	listeners []listener
	nextID    ListenerID
}

// On registers h for events of type t.
func (r *Registry) On(t EventType, h Handler) ListenerID {
	return r.OnMatch(func(e Event) bool { return e.Type == t }, h)
}

// OnPointerDown registers h for mouse button and touch presses.
func (r *Registry) OnPointerDown(h Handler) ListenerID {
	return r.OnMatch(Event.IsPointerDown, h)
}

// OnMatch registers h for every event match accepts.
func (r *Registry) OnMatch(match func(Event) bool, h Handler) ListenerID {
	r.nextID++
	r.listeners = append(r.listeners, listener{id: r.nextID, match: match, handler: h})
	return r.nextID
}

// Off removes a listener. It reports whether the listener was registered.
func (r *Registry) Off(id ListenerID) bool {
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	return len(r.listeners)
}

// Dispatch delivers e to every matching listener registered before the call
// that has not been removed in the meantime.
func (r *Registry) Dispatch(e Event) {
	snapshot := r.listeners
	for _, l := range snapshot {
		if !l.match(e) || !r.registered(l.id) {
			continue
		}
		l.handler(e)
	}
}

func (r *Registry) registered(id ListenerID) bool {
	for _, l := range r.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}
