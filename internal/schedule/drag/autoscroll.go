package drag

// ScrollSpeed returns the auto-scroll speed for a pointer at pointerY while
// a drag is in progress. Within margin pixels of the viewport's top or
// bottom edge the speed grows quadratically from 0 at the margin boundary
// to maxSpeed at the exact edge (and stays capped beyond it). Outside the
// margins the speed is exactly 0, so scrolling stops the moment the pointer
// leaves them or the drag ends.
//
// Negative speeds scroll up, positive scroll down.
func ScrollSpeed(pointerY, viewportTop, viewportBottom, margin, maxSpeed float64) float64 {
	if margin <= 0 || maxSpeed <= 0 || viewportBottom <= viewportTop {
		return 0
	}

	if pointerY < viewportTop+margin {
		depth := (viewportTop + margin - pointerY) / margin
		if depth > 1 {
			depth = 1
		}
		return -maxSpeed * depth * depth
	}

	if pointerY > viewportBottom-margin {
		depth := (pointerY - (viewportBottom - margin)) / margin
		if depth > 1 {
			depth = 1
		}
		return maxSpeed * depth * depth
	}

	return 0
}
