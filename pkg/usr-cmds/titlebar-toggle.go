package usrCmds

import "fmt"

func init() {
	register("titlebar-toggle", TitlebarToggle)
}

// TitlebarToggle shows and hides the titlebar of the focused window. Hidden
// titlebars fall back to the layout theme's border width.
func TitlebarToggle(d DaemonAPI, _ map[string]string) (string, error) {
	path, err := d.FocusedWindowPath()
	if err != nil {
		return "", err
	}
	win := path[len(path)-1]

	border := "normal"
	if win.Border == "normal" {
		width := 0
		if cfg := d.Config(); cfg != nil {
			width = cfg.LayoutTheme.BorderWidth
		}
		border = fmt.Sprintf("pixel %d", width)
	}

	return border, d.SwayMsg(`[con_id=%d] border %s`, win.ID, border)
}
