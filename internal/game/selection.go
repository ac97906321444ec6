package game

// SelectNextOwnedRegion moves the selection cursor to the next region the player owns.
// The cursor cycles through owned regions in world order. With no owned regions the
// selection is cleared and ErrInvalidSelection is returned.
func (w *World) SelectNextOwnedRegion() (string, error) {
	owned := w.OwnedRegions(w.PlayerID)
	if len(owned) == 0 {
		w.ClearSelection()
		return "", ErrInvalidSelection
	}

	w.cursorIdx %= len(owned)
	w.selected = owned[w.cursorIdx]
	w.cursorIdx++
	return w.selected, nil
}

// Selected returns the selected region name, empty if none.
func (w *World) Selected() string {
	return w.selected
}

// SelectedRegion returns the selected region if the player still owns it.
func (w *World) SelectedRegion() (*Region, error) {
	if w.selected == "" {
		return nil, ErrInvalidSelection
	}
	return w.playerRegion(w.selected)
}

// ClearSelection drops the selection and resets the cursor.
func (w *World) ClearSelection() {
	w.selected = ""
	w.cursorIdx = 0
}
