package vk

import json "github.com/goccy/go-json"

type Color string

const (
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
	ColorPositive  Color = "positive"
	ColorNegative  Color = "negative"
)

type ButtonAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type Button struct {
	Action ButtonAction `json:"action"`
	Color  Color        `json:"color,omitempty"`
}

// Keyboard is the reply keyboard attached to outgoing messages.
type Keyboard struct {
	OneTime bool       `json:"one_time"`
	Buttons [][]Button `json:"buttons"`
}

func NewKeyboard(oneTime bool) *Keyboard {
	return &Keyboard{OneTime: oneTime, Buttons: [][]Button{{}}}
}

// AddButton appends a text button to the current row.
func (k *Keyboard) AddButton(label string, color Color) *Keyboard {
	last := len(k.Buttons) - 1
	k.Buttons[last] = append(k.Buttons[last], Button{
		Action: ButtonAction{Type: "text", Label: label},
		Color:  color,
	})
	return k
}

// AddLine starts a new row.
func (k *Keyboard) AddLine() *Keyboard {
	k.Buttons = append(k.Buttons, []Button{})
	return k
}

// Labels returns button labels row by row.
func (k *Keyboard) Labels() [][]string {
	out := make([][]string, len(k.Buttons))
	for i, row := range k.Buttons {
		for _, b := range row {
			out[i] = append(out[i], b.Action.Label)
		}
	}
	return out
}

func (k *Keyboard) JSON() (string, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
