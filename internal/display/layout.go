package display

import (
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
)

// Geometry, in pixels.
const (
	edgeMargin  = 12
	stackGap    = 8
	toastWidth  = 360
	dialogWidth = 420
)

// anchor sets the layer-shell anchors and margins of window for position.
// Center leaves every edge unanchored so the compositor centers the surface.
func anchor(window *gtk.Window, pos config.Position) {
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, false)

	switch pos {
	case config.PositionTopRight:
		setEdges(window, layershell.LayerShellEdgeTop, layershell.LayerShellEdgeRight)
	case config.PositionTopLeft:
		setEdges(window, layershell.LayerShellEdgeTop, layershell.LayerShellEdgeLeft)
	case config.PositionTopCenter:
		setEdges(window, layershell.LayerShellEdgeTop)
	case config.PositionBottomRight:
		setEdges(window, layershell.LayerShellEdgeBottom, layershell.LayerShellEdgeRight)
	case config.PositionBottomLeft:
		setEdges(window, layershell.LayerShellEdgeBottom, layershell.LayerShellEdgeLeft)
	case config.PositionBottomCenter:
		setEdges(window, layershell.LayerShellEdgeBottom)
	}
}

func setEdges(window *gtk.Window, edges ...layershell.LayerShellEdge) {
	for _, edge := range edges {
		layershell.SetAnchor(window, edge, true)
		layershell.SetMargin(window, edge, edgeMargin)
	}
}

// initLayer turns window into a layer-shell surface.
func initLayer(window *gtk.Window, layer layershell.LayerShellLayer, keyboard layershell.LayerShellKeyboardMode, namespace string) {
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layer)
	layershell.SetExclusiveZone(window, 0) // don't reserve space
	layershell.SetKeyboardMode(window, keyboard)
	layershell.SetNamespace(window, namespace)
}
