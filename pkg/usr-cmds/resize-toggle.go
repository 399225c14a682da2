package usrCmds

func init() {
	register("resize-toggle", ResizeToggle)
}

// ResizeToggle toggles the width of the top-most split parent of the focused
// window, between 10-50-90% of the workspace width.
func ResizeToggle(d DaemonAPI, _ map[string]string) (string, error) {
	path, err := d.FocusedWindowPath()
	if err != nil {
		return "", err
	}

	space := path[0]
	split := path[1]
	// skip splits as wide as the workspace
	for i := 2; split.Width == space.Width && i < len(path); i++ {
		split = path[i]
	}

	halfWidth := space.Width / 2
	targetWidth := int(0.9 * float32(space.Width))

	var ppt string
	switch {
	case split.Width == halfWidth:
		ppt = "90ppt"
	case split.Width < targetWidth:
		ppt = "50ppt"
	default:
		ppt = "10ppt"
	}

	return ppt, d.SwayMsg(`[con_id=%d] resize set width %s`, split.ID, ppt)
}
