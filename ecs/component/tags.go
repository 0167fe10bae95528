package component

import "slices"

// Tag labels an entity so systems can find groups of entities by name.
type Tag struct {
	Values []string
}

func (t *Tag) Has(value string) bool {
	return t != nil && value != "" && slices.Contains(t.Values, value)
}

var TagComponent = NewComponent[Tag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
