package titan

// Tag names an entity, e.g. so scene descriptions can refer to it.
type Tag struct {
	Name string
}
