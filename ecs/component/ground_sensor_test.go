package component

import "testing"

func TestGroundSensorSequences(t *testing.T) {
	const (
		enter = true
		exit  = false
	)
	tests := []struct {
		name    string
		mode    GroundSensorMode
		events  []bool
		want    bool
		wantCnt int
	}{
		{"initial_latest", GroundSensorLatest, nil, false, 0},
		{"initial_counted", GroundSensorCounted, nil, false, 0},
		{"enter_latest", GroundSensorLatest, []bool{enter}, true, 1},
		{"enter_counted", GroundSensorCounted, []bool{enter}, true, 1},
		{"enter_exit_latest", GroundSensorLatest, []bool{enter, exit}, false, 0},
		{"enter_exit_counted", GroundSensorCounted, []bool{enter, exit}, false, 0},
		{"overlap_latest", GroundSensorLatest, []bool{enter, enter, exit}, false, 1},
		{"overlap_counted", GroundSensorCounted, []bool{enter, enter, exit}, true, 1},
		{"overlap_counted_both_exit", GroundSensorCounted, []bool{enter, enter, exit, exit}, false, 0},
		{"exit_first_counted", GroundSensorCounted, []bool{exit, enter}, true, 1},
		{"extra_exit_counted", GroundSensorCounted, []bool{enter, exit, exit}, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := &GroundSensor{Mode: tc.mode}
			for _, ev := range tc.events {
				if ev {
					g.Enter()
				} else {
					g.Exit()
				}
			}
			if g.Grounded() != tc.want {
				t.Fatalf("expected grounded=%v, got %v", tc.want, g.Grounded())
			}
			if g.Contacts() != tc.wantCnt {
				t.Fatalf("expected %d contacts, got %d", tc.wantCnt, g.Contacts())
			}
		})
	}
}

func TestGroundSensorNil(t *testing.T) {
	var g *GroundSensor
	g.Enter()
	g.Exit()
	if g.Grounded() {
		t.Fatalf("nil sensor should read airborne")
	}
}

func TestGroundSensorSetMode(t *testing.T) {
	g := &GroundSensor{Mode: GroundSensorLatest}
	g.Enter()
	g.Enter()
	g.Exit()
	if g.Grounded() {
		t.Fatalf("latest mode should be airborne after overlapping exit")
	}
	g.SetMode(GroundSensorCounted)
	if !g.Grounded() {
		t.Fatalf("counted mode should re-derive grounded from one remaining contact")
	}
}

func TestParseGroundSensorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    GroundSensorMode
		wantErr bool
	}{
		{"", GroundSensorCounted, false},
		{"counted", GroundSensorCounted, false},
		{"latest", GroundSensorLatest, false},
		{"sticky", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseGroundSensorMode(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestProjectileCompleteOnce(t *testing.T) {
	var calls []uint64
	p := &Projectile{
		Record:     ProjectileRecord{ID: 7},
		OnComplete: func(id uint64) { calls = append(calls, id) },
	}
	if !p.Complete() {
		t.Fatalf("first Complete should fire")
	}
	if p.Complete() {
		t.Fatalf("second Complete should not fire")
	}
	if len(calls) != 1 || calls[0] != 7 {
		t.Fatalf("expected one callback with id 7, got %v", calls)
	}
	if !p.Completed() {
		t.Fatalf("expected Completed after firing")
	}
}
