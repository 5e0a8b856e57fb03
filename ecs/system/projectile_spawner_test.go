package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs/component"
)

type countingSource struct {
	*PointerDispatcher
	subscribes int
	suppresses int
}

func (c *countingSource) Subscribe(h PointerHandler) func() {
	c.subscribes++
	return c.PointerDispatcher.Subscribe(h)
}

func (c *countingSource) SuppressContextMenu() func() {
	c.suppresses++
	return c.PointerDispatcher.SuppressContextMenu()
}

func newTestSpawner(body component.Body) (*ProjectileSpawner, *[]component.ProjectileRecord) {
	var spawned []component.ProjectileRecord
	s := NewProjectileSpawner(
		func() component.Body { return body },
		func(rec component.ProjectileRecord) { spawned = append(spawned, rec) },
		nil,
	)
	return s, &spawned
}

func click(x, y float64, b PointerButton) *PointerEvent {
	return &PointerEvent{X: x, Y: y, Button: b, ViewportWidth: 800, ViewportHeight: 600}
}

func TestTargeting(t *testing.T) {
	tg := DefaultTargeting()
	tests := []struct {
		name   string
		x, y   float64
		w, h   float64
		want   mgl64.Vec3
		wantOK bool
	}{
		{"center", 400, 300, 800, 600, mgl64.Vec3{0, 2, 0}, true},
		{"top_left", 0, 0, 800, 600, mgl64.Vec3{-20, 2, -20}, true},
		{"bottom_right", 800, 600, 800, 600, mgl64.Vec3{20, 2, 20}, true},
		{"quarter", 200, 450, 800, 600, mgl64.Vec3{-10, 2, 10}, true},
		{"zero_width", 10, 10, 0, 600, mgl64.Vec3{}, false},
		{"negative_height", 10, 10, 800, -1, mgl64.Vec3{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tg.Target(tc.x, tc.y, tc.w, tc.h)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if !approxVec(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if !ok {
				return
			}
			x, y := tg.Screen(got, tc.w, tc.h)
			if !approx(x, tc.x) || !approx(y, tc.y) {
				t.Fatalf("Screen should invert Target: got (%v, %v)", x, y)
			}
		})
	}
}

func TestKindForButton(t *testing.T) {
	tests := []struct {
		button PointerButton
		want   component.ProjectileKind
	}{
		{PointerPrimary, component.ProjectileBow},
		{PointerMiddle, component.ProjectileBoomerang},
		{PointerSecondary, component.ProjectileBoomerang},
		{PointerButton(4), component.ProjectileBoomerang},
	}
	for _, tc := range tests {
		if got := KindForButton(tc.button); got != tc.want {
			t.Fatalf("button %d: expected %s, got %s", tc.button, tc.want, got)
		}
	}
}

func TestProjectileSpawnerFire(t *testing.T) {
	body := &fakeBody{pos: mgl64.Vec3{1, 2, 3}}
	s, spawned := newTestSpawner(body)

	ev := click(400, 300, PointerPrimary)
	s.Fire(ev)
	if !ev.DefaultPrevented() {
		t.Fatalf("expected default action to be prevented")
	}

	body.pos = mgl64.Vec3{4, 5, 6}
	s.Fire(click(0, 0, PointerSecondary))
	s.Fire(click(800, 600, PointerMiddle))

	recs := s.Records()
	if len(recs) != 3 || len(*spawned) != 3 {
		t.Fatalf("expected 3 live records and 3 spawns, got %d and %d", len(recs), len(*spawned))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].ID <= recs[i-1].ID {
			t.Fatalf("ids not strictly increasing: %v", recs)
		}
	}
	if recs[0].Kind != component.ProjectileBow || recs[1].Kind != component.ProjectileBoomerang || recs[2].Kind != component.ProjectileBoomerang {
		t.Fatalf("unexpected kinds: %v", recs)
	}
	if !approxVec(recs[0].Origin, mgl64.Vec3{1, 2, 3}) || !approxVec(recs[1].Origin, mgl64.Vec3{4, 5, 6}) {
		t.Fatalf("origins should snapshot the body position at spawn: %v", recs)
	}
	if !approxVec(recs[1].Target, mgl64.Vec3{-20, 2, -20}) {
		t.Fatalf("unexpected target %v", recs[1].Target)
	}

	body.pos = mgl64.Vec3{9, 9, 9}
	if !approxVec(s.Records()[0].Origin, mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("origin should not follow the body after spawn")
	}
}

func TestProjectileSpawnerIgnores(t *testing.T) {
	t.Run("no_body", func(t *testing.T) {
		s, spawned := newTestSpawner(nil)
		ev := click(10, 10, PointerPrimary)
		s.Fire(ev)
		if s.Live() != 0 || len(*spawned) != 0 {
			t.Fatalf("expected no records without a body")
		}
		if !ev.DefaultPrevented() {
			t.Fatalf("expected default action to be prevented even when ignored")
		}
	})

	t.Run("empty_viewport", func(t *testing.T) {
		s, spawned := newTestSpawner(&fakeBody{})
		s.Fire(&PointerEvent{X: 10, Y: 10})
		if s.Live() != 0 || len(*spawned) != 0 {
			t.Fatalf("expected no records for an empty viewport")
		}
	})

	t.Run("nil_event", func(t *testing.T) {
		s, _ := newTestSpawner(&fakeBody{})
		s.Fire(nil)
		if s.Live() != 0 {
			t.Fatalf("expected no records for nil event")
		}
	})
}

func TestProjectileSpawnerComplete(t *testing.T) {
	s, _ := newTestSpawner(&fakeBody{})
	for i := 0; i < 3; i++ {
		s.Fire(click(100, 100, PointerPrimary))
	}
	ids := []uint64{}
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}

	s.Complete(ids[1])
	recs := s.Records()
	if len(recs) != 2 || recs[0].ID != ids[0] || recs[1].ID != ids[2] {
		t.Fatalf("expected only id %d removed, got %v", ids[1], recs)
	}

	s.Complete(ids[1])
	s.Complete(999)
	if s.Live() != 2 {
		t.Fatalf("duplicate and unknown completions should be no-ops, live=%d", s.Live())
	}

	s.Fire(click(100, 100, PointerPrimary))
	recs = s.Records()
	if last := recs[len(recs)-1].ID; last <= ids[2] {
		t.Fatalf("ids must not be reused, got %d after %d", last, ids[2])
	}
}

func TestProjectileSpawnerCompleteDuringSpawn(t *testing.T) {
	var s *ProjectileSpawner
	s = NewProjectileSpawner(
		func() component.Body { return &fakeBody{} },
		func(rec component.ProjectileRecord) { s.Complete(rec.ID) },
		nil,
	)
	s.Fire(click(1, 1, PointerPrimary))
	if s.Live() != 0 {
		t.Fatalf("a record completed by its factory should not stay live")
	}
}

func TestProjectileSpawnerMaxLive(t *testing.T) {
	s, spawned := newTestSpawner(&fakeBody{})
	s.Configure(DefaultTargeting(), 2)
	for i := 0; i < 4; i++ {
		s.Fire(click(1, 1, PointerPrimary))
	}
	if s.Live() != 2 || len(*spawned) != 2 {
		t.Fatalf("expected cap of 2, got live=%d spawned=%d", s.Live(), len(*spawned))
	}
	s.Complete(s.Records()[0].ID)
	s.Fire(click(1, 1, PointerPrimary))
	if s.Live() != 2 {
		t.Fatalf("expected a freed slot to be reused, live=%d", s.Live())
	}
}

func TestProjectileSpawnerLifecycle(t *testing.T) {
	src := &countingSource{PointerDispatcher: NewPointerDispatcher()}
	s, spawned := newTestSpawner(&fakeBody{})

	s.Start(src)
	s.Start(src)
	if src.subscribes != 1 || src.suppresses != 1 {
		t.Fatalf("Start should subscribe once, got %d/%d", src.subscribes, src.suppresses)
	}
	if !s.Running() {
		t.Fatalf("expected spawner to be running")
	}

	ev := click(400, 300, PointerSecondary)
	src.Dispatch(ev)
	if s.Live() != 1 || len(*spawned) != 1 {
		t.Fatalf("expected one record from dispatched event")
	}
	menu := click(400, 300, PointerSecondary)
	src.DispatchContextMenu(menu)
	if !menu.DefaultPrevented() {
		t.Fatalf("context menu should be suppressed while running")
	}

	s.Stop()
	s.Stop()
	if s.Running() || src.Subscribers() != 0 {
		t.Fatalf("Stop should drop the subscription")
	}
	src.Dispatch(click(1, 1, PointerPrimary))
	if s.Live() != 1 {
		t.Fatalf("no records should be created after Stop, live=%d", s.Live())
	}
	menu = click(1, 1, PointerSecondary)
	src.DispatchContextMenu(menu)
	if menu.DefaultPrevented() {
		t.Fatalf("context menu should be restored after Stop")
	}

	s.Start(src)
	if !s.Running() || src.subscribes != 2 {
		t.Fatalf("expected restart to subscribe again")
	}
	s.Stop()
}
