package titan

import (
	"reflect"
)

// Queries iterate archetypes in creation order and rows in storage order, so
// iteration is deterministic for a given sequence of structural changes.
// The callback must not attach, remove or delete anything; collect ids and
// apply the changes after Map returns.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](s *Scene) Query1[A]             { return Query1[A]{ecs: &s.registry} }
func MakeQuery2[A, B any](s *Scene) Query2[A, B]       { return Query2[A, B]{ecs: &s.registry} }
func MakeQuery3[A, B, C any](s *Scene) Query3[A, B, C] { return Query3[A, B, C]{ecs: &s.registry} }
func MakeQuery4[A, B, C, D any](s *Scene) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: &s.registry}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, archId := range q.ecs.archetypeOrder {
		arch := q.ecs.archetypes[archId]
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}

		for r, entityId := range arch.rows {
			if entityId == NullEntity {
				continue
			}
			if !m(entityId, cell(comps1, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, archId := range q.ecs.archetypeOrder {
		arch := q.ecs.archetypes[archId]
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}

		for r, entityId := range arch.rows {
			if entityId == NullEntity {
				continue
			}
			if !m(entityId, cell(comps1, r), cell(comps2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, archId := range q.ecs.archetypeOrder {
		arch := q.ecs.archetypes[archId]
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}

		for r, entityId := range arch.rows {
			if entityId == NullEntity {
				continue
			}
			if !m(entityId, cell(comps1, r), cell(comps2, r), cell(comps3, r)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	id4 := identifyComponent[D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, archId := range q.ecs.archetypeOrder {
		arch := q.ecs.archetypes[archId]
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}
		comps4, ok := column[D](arch, id4, opt)
		if !ok {
			continue
		}

		for r, entityId := range arch.rows {
			if entityId == NullEntity {
				continue
			}
			if !m(entityId, cell(comps1, r), cell(comps2, r), cell(comps3, r), cell(comps4, r)) {
				return
			}
		}
	}
}

// column returns the typed component slice of an archetype. A missing
// optional component yields a nil slice and ok; a missing required one
// excludes the archetype.
func column[T any](arch *archetype, id componentId, optionals set[componentId]) ([]T, bool) {
	if data, ok := arch.componentData[id]; ok {
		return data.([]T), true
	}
	if _, ok := optionals[id]; ok {
		return nil, true
	}
	return nil, false
}

func cell[T any](col []T, r int) *T {
	if col == nil {
		return nil
	}
	return &col[r]
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		t := reflect.TypeOf(c)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		res[ecs.getComponentId(t)] = struct{}{}
	}

	return res
}

func identifyComponent[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[A]())
}
