package physics

// MotionState receives the pose of a body after every simulation step and
// supplies the pose of kinematic bodies before each one.
type MotionState interface {
	WorldTransform() Transform
	SetWorldTransform(t Transform)
}

type DefaultMotionState struct {
	transform Transform
}

func NewDefaultMotionState(start Transform) *DefaultMotionState {
	return &DefaultMotionState{transform: start}
}

func (m *DefaultMotionState) WorldTransform() Transform { return m.transform }

func (m *DefaultMotionState) SetWorldTransform(t Transform) { m.transform = t }
