package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// swaybar mouse buttons
const (
	ButtonLeft       = 1
	ButtonMiddle     = 2
	ButtonRight      = 3
	ButtonScrollUp   = 4
	ButtonScrollDown = 5
)

// Header opens the stream, see swaybar-protocol(7).
type Header struct {
	Version     int  `json:"version"`
	ClickEvents bool `json:"click_events"`
}

// Block is a single status line element.
type Block struct {
	FullText            string `json:"full_text"`
	Name                string `json:"name,omitempty"`
	Instance            string `json:"instance,omitempty"`
	Color               string `json:"color,omitempty"`
	Background          string `json:"background,omitempty"`
	Border              string `json:"border,omitempty"`
	BorderTop           *int   `json:"border_top,omitempty"`
	BorderRight         *int   `json:"border_right,omitempty"`
	BorderBottom        *int   `json:"border_bottom,omitempty"`
	BorderLeft          *int   `json:"border_left,omitempty"`
	MinWidth            int    `json:"min_width,omitempty"`
	Align               string `json:"align,omitempty"`
	Separator           *bool  `json:"separator,omitempty"`
	SeparatorBlockWidth *int   `json:"separator_block_width,omitempty"`
	Markup              string `json:"markup,omitempty"`
}

// ClickEvent is sent by swaybar on stdin when a named block gets clicked.
type ClickEvent struct {
	Name      string `json:"name"`
	Instance  string `json:"instance"`
	Button    int    `json:"button"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	RelativeX int    `json:"relative_x"`
	RelativeY int    `json:"relative_y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func writeHeader(w io.Writer) error {
	head, err := json.Marshal(Header{Version: 1, ClickEvents: true})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n[\n", head)

	return err
}

// writeFrame writes one element of the infinite array. Every frame but the
// first one is prefixed with a comma.
func writeFrame(w io.Writer, blocks []Block, first bool) error {
	if blocks == nil {
		blocks = []Block{}
	}
	line, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	if !first {
		line = append([]byte{','}, line...)
	}
	_, err = w.Write(append(line, '\n'))

	return err
}

// readClicks decodes the infinite click array until r ends or ctx is done.
func readClicks(ctx context.Context, r io.Reader, out chan<- ClickEvent) error {
	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read click events: %w", err)
	}

	for dec.More() {
		var ev ClickEvent
		if err := dec.Decode(&ev); err != nil {
			return fmt.Errorf("decode click event: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case out <- ev:
		}
	}

	return nil
}
