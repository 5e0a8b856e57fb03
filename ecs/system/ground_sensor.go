package system

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/logging"
	"go.uber.org/zap"
)

// GroundSensorSystem applies the sensor enter/exit events queued by the
// previous physics step. It runs first in the tick so every system in the
// tick reads the same grounded state.
type GroundSensorSystem struct {
	log *zap.Logger
}

func NewGroundSensorSystem(log *zap.Logger) *GroundSensorSystem {
	return &GroundSensorSystem{log: logging.OrNop(log)}
}

func (g *GroundSensorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, evt := range w.Events().Drain(ecs.EventTypeGroundSensor) {
		se, ok := evt.Data.(ecs.SensorEvent)
		if !ok {
			continue
		}
		sensor, ok := ecs.Get(w, se.Entity, component.GroundSensorComponent.Kind())
		if !ok {
			continue
		}
		before := sensor.Grounded()
		switch se.Kind {
		case ecs.SensorEnter:
			sensor.Enter()
		case ecs.SensorExit:
			sensor.Exit()
		}
		if before != sensor.Grounded() {
			g.log.Debug("ground sensor",
				zap.Stringer("entity", se.Entity),
				zap.Bool("grounded", sensor.Grounded()),
				zap.Int("contacts", sensor.Contacts()),
			)
		}
	}
}
