package titan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	var ids []EntityId
	var as []Comp1
	var bs []Comp2
	Query2[Comp1, Comp2]{ecs: &ecs}.Map(func(id EntityId, c1 *Comp1, c2 *Comp2) bool {
		ids = append(ids, id)
		as = append(as, *c1)
		bs = append(bs, *c2)
		return true
	})

	assert.Equal(t, []EntityId{id2, id3}, ids)
	assert.Equal(t, []Comp1{{a: 2}, {a: 3}}, as)
	assert.Equal(t, []Comp2{{b: 1.37}, {b: 4.20}}, bs)
}

func TestQuery_MapWritesThrough(t *testing.T) {
	type Counter struct{ n int }

	ecs := MakeEcs()
	id := ecs.addEntity(Counter{})
	q := Query1[Counter]{ecs: &ecs}
	for range 3 {
		q.Map(func(_ EntityId, c *Counter) bool {
			c.n++
			return true
		})
	}

	q.Map(func(e EntityId, c *Counter) bool {
		assert.Equal(t, id, e)
		assert.Equal(t, 3, c.n)
		return true
	})
}

func TestQuery_StopsWhenCallbackReturnsFalse(t *testing.T) {
	type Comp struct{ v int }

	ecs := MakeEcs()
	for i := range 5 {
		ecs.addEntity(Comp{v: i})
	}

	visited := 0
	Query1[Comp]{ecs: &ecs}.Map(func(EntityId, *Comp) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestQuery_OptionalComponent(t *testing.T) {
	type Pos struct{ x int }
	type Vel struct{ v int }

	ecs := MakeEcs()
	a := ecs.addEntity(Pos{1})
	b := ecs.addEntity(Pos{2}, Vel{5})

	seen := map[EntityId]*Vel{}
	Query2[Pos, Vel]{ecs: &ecs}.Map(func(e EntityId, _ *Pos, v *Vel) bool {
		seen[e] = v
		return true
	}, Vel{})

	assert.Len(t, seen, 2)
	assert.Nil(t, seen[a])
	if assert.NotNil(t, seen[b]) {
		assert.Equal(t, 5, seen[b].v)
	}
}

func TestQuery_IterationOrderIsDeterministic(t *testing.T) {
	type A struct{}
	type B struct{}

	build := func() []EntityId {
		ecs := MakeEcs()
		ecs.addEntity(A{}, B{})
		ecs.addEntity(A{})
		ecs.addEntity(A{}, B{})
		ecs.addEntity(A{})
		var out []EntityId
		Query1[A]{ecs: &ecs}.Map(func(e EntityId, _ *A) bool {
			out = append(out, e)
			return true
		})
		return out
	}

	first := build()
	for range 10 {
		assert.Equal(t, first, build())
	}
	assert.Equal(t, []EntityId{1, 3, 2, 4}, first)
}
