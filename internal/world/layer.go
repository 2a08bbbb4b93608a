package world

import (
	"fmt"
	"strings"
)

// Layer classifies what an object is, from the ground up. Ordering matters:
// systems compare layers with < and >=.
type Layer int

const (
	LayerTerrain Layer = iota
	LayerFloor
	LayerObjects
	LayerItems
	LayerOverlay
)

var layerNames = [...]string{"terrain", "floor", "objects", "items", "overlay"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// ParseLayer maps a layer name (case-insensitive) to its Layer.
func ParseLayer(name string) (Layer, error) {
	for i, n := range layerNames {
		if strings.EqualFold(name, n) {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", name)
}
