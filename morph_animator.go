package titan

import "fmt"

// MorphAnimator is the component that plays one of several morph clips on
// the entity's mesh.
type MorphAnimator struct {
	anims  []MorphAnimation
	active int
}

// AddAnim appends a clip and returns its index.
func (m *MorphAnimator) AddAnim(anim MorphAnimation) int {
	m.anims = append(m.anims, anim)
	return len(m.anims) - 1
}

// SetActiveAnim switches clips. An index out of range is rejected and the
// active clip stays as it was.
func (m *MorphAnimator) SetActiveAnim(index int) error {
	if index < 0 || index >= len(m.anims) {
		return fmt.Errorf("animation %d of %d: %w", index, len(m.anims), ErrConfig)
	}
	m.active = index
	return nil
}

func (m *MorphAnimator) ActiveIndex() int { return m.active }

func (m *MorphAnimator) Len() int { return len(m.anims) }

// ActiveAnim returns nil while no clip was added.
func (m *MorphAnimator) ActiveAnim() *MorphAnimation {
	return m.AnimAt(m.active)
}

func (m *MorphAnimator) AnimAt(index int) *MorphAnimation {
	if index < 0 || index >= len(m.anims) {
		return nil
	}
	return &m.anims[index]
}

// FindAnim returns the index of the first clip with the given name.
func (m *MorphAnimator) FindAnim(name string) (int, bool) {
	for i := range m.anims {
		if m.anims[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

func (m *MorphAnimator) Update(dt float32) {
	if anim := m.ActiveAnim(); anim != nil {
		anim.Update(dt)
	}
}

// frames reports the mesh frames and blend factor the renderer should use.
func (m *MorphAnimator) frames() (current, next int, t float32) {
	anim := m.ActiveAnim()
	if anim == nil {
		return 0, 0, 0
	}
	return anim.CurrentFrame(), anim.NextFrame(), anim.InterpolationParameter()
}
