package system

import (
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/arena/ecs"
)

// PointerButton follows the DOM numbering: 0 primary, 1 middle, 2 secondary.
type PointerButton int

const (
	PointerPrimary   PointerButton = 0
	PointerMiddle    PointerButton = 1
	PointerSecondary PointerButton = 2
)

// PointerEvent is a pointer-down (or context-menu) event in screen space.
type PointerEvent struct {
	X, Y   float64
	Button PointerButton

	// Size of the viewport X and Y are measured in.
	ViewportWidth  float64
	ViewportHeight float64

	defaultPrevented bool
}

// PreventDefault stops the host from running its own action for the event.
func (ev *PointerEvent) PreventDefault() {
	if ev != nil {
		ev.defaultPrevented = true
	}
}

func (ev *PointerEvent) DefaultPrevented() bool {
	return ev != nil && ev.defaultPrevented
}

type PointerHandler func(ev *PointerEvent)

// PointerSource delivers pointer-down events to subscribers. Both methods
// return the function that undoes them.
type PointerSource interface {
	Subscribe(h PointerHandler) (cancel func())
	SuppressContextMenu() (restore func())
}

// PointerDispatcher fans pointer events out to subscribers in subscription
// order. Handlers run to completion one at a time.
type PointerDispatcher struct {
	mu         sync.Mutex
	nextID     int
	handlers   map[int]PointerHandler
	suppressed int
}

func NewPointerDispatcher() *PointerDispatcher {
	return &PointerDispatcher{handlers: make(map[int]PointerHandler)}
}

func (d *PointerDispatcher) Subscribe(h PointerHandler) func() {
	if d == nil || h == nil {
		return func() {}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = make(map[int]PointerHandler)
	}
	d.nextID++
	id := d.nextID
	d.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.handlers, id)
			d.mu.Unlock()
		})
	}
}

func (d *PointerDispatcher) SuppressContextMenu() func() {
	if d == nil {
		return func() {}
	}
	d.mu.Lock()
	d.suppressed++
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			d.suppressed--
			d.mu.Unlock()
		})
	}
}

// Subscribers reports how many handlers are registered.
func (d *PointerDispatcher) Subscribers() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// Dispatch delivers a pointer-down event to every subscriber.
func (d *PointerDispatcher) Dispatch(ev *PointerEvent) {
	if d == nil || ev == nil {
		return
	}
	for _, h := range d.snapshot() {
		h(ev)
	}
}

// DispatchContextMenu prevents the context menu action while any subscriber
// holds a suppression.
func (d *PointerDispatcher) DispatchContextMenu(ev *PointerEvent) {
	if d == nil || ev == nil {
		return
	}
	d.mu.Lock()
	suppressed := d.suppressed > 0
	d.mu.Unlock()
	if suppressed {
		ev.PreventDefault()
	}
}

func (d *PointerDispatcher) snapshot() []PointerHandler {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.handlers))
	for id := range d.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]PointerHandler, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.handlers[id])
	}
	return out
}

// PointerSystem polls ebiten's mouse once per tick and dispatches a
// pointer-down event for every button pressed this tick.
type PointerSystem struct {
	*PointerDispatcher

	// Viewport returns the logical screen size cursor positions are in.
	Viewport func() (width, height float64)
}

func NewPointerSystem(viewport func() (float64, float64)) *PointerSystem {
	return &PointerSystem{PointerDispatcher: NewPointerDispatcher(), Viewport: viewport}
}

var pointerButtons = []struct {
	mouse  ebiten.MouseButton
	button PointerButton
}{
	{ebiten.MouseButtonLeft, PointerPrimary},
	{ebiten.MouseButtonMiddle, PointerMiddle},
	{ebiten.MouseButtonRight, PointerSecondary},
}

func (p *PointerSystem) Update(w *ecs.World) {
	if p == nil || p.PointerDispatcher == nil {
		return
	}

	var vw, vh float64
	if p.Viewport != nil {
		vw, vh = p.Viewport()
	}
	cx, cy := ebiten.CursorPosition()

	for _, b := range pointerButtons {
		if !inpututil.IsMouseButtonJustPressed(b.mouse) {
			continue
		}
		ev := &PointerEvent{
			X:              float64(cx),
			Y:              float64(cy),
			Button:         b.button,
			ViewportWidth:  vw,
			ViewportHeight: vh,
		}
		if b.button == PointerSecondary {
			menu := *ev
			p.DispatchContextMenu(&menu)
		}
		p.Dispatch(ev)
	}
}
