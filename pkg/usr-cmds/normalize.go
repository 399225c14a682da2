package usrCmds

import (
	"fmt"

	"github.com/pancsta/sway-deskcfg/internal/types"
)

func init() {
	register("normalize", Normalize)
}

// Normalize resets all window sizes on the focused workspace, giving the
// children of every split an equal share.
func Normalize(d DaemonAPI, _ map[string]string) (string, error) {
	space, err := d.WorkspaceTree()
	if err != nil {
		return "", err
	}
	msgs := normalizeMsgs(&space)
	if len(msgs) == 0 {
		return "", nil
	}

	return fmt.Sprintf("%d containers", len(msgs)), d.SwayMsgs(msgs)
}

func normalizeMsgs(n *types.Node) []string {
	var msgs []string

	dim := ""
	switch n.Layout {
	case "splith":
		dim = "width"
	case "splitv":
		dim = "height"
	}
	if dim != "" && len(n.Nodes) > 1 {
		ppt := 100 / len(n.Nodes)
		for _, c := range n.Nodes {
			msgs = append(msgs, fmt.Sprintf("[con_id=%d] resize set %s %d ppt", c.ID, dim, ppt))
		}
	}
	for i := range n.Nodes {
		msgs = append(msgs, normalizeMsgs(&n.Nodes[i])...)
	}

	return msgs
}
