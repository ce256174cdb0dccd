package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "A"},
		{Label: "Off", Disabled: true},
		{Label: "B"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(key(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)
	m, _ = m.Update(key(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd { ran = true; return nil }}})
	m.Update(key(tea.KeyEnter))
	assert.True(t, ran)
}

func TestMultiChoice(t *testing.T) {
	mc := NewMultiChoice("Fever?", []string{"No", "Mild", "High"}, -1)
	assert.False(t, mc.HasChoice())

	mc, _ = mc.Update(key(tea.KeyDown))
	mc, _ = mc.Update(key(tea.KeyDown))
	mc, _ = mc.Update(key(tea.KeyDown))
	assert.Equal(t, 2, mc.Cursor)

	mc, _ = mc.Update(key(tea.KeyEnter))
	assert.Equal(t, 2, mc.Chosen)
	assert.True(t, mc.HasChoice())

	mc.Locked = true
	mc, _ = mc.Update(key(tea.KeyUp))
	assert.Equal(t, 2, mc.Cursor)
	assert.Contains(t, mc.View(), "C)  High")
}

func TestMultiChoice_RestoresChoice(t *testing.T) {
	mc := NewMultiChoice("Q", []string{"a", "b"}, 1)
	assert.Equal(t, 1, mc.Cursor)
	assert.Equal(t, 1, mc.Chosen)

	mc = NewMultiChoice("Q", []string{"a", "b"}, 7)
	assert.Equal(t, -1, mc.Chosen)
}

func TestProgressBar_Clamps(t *testing.T) {
	p := NewProgressBar("", 1.7, true, 20)
	assert.Contains(t, p.View(), "100%")
	p.Percent = -1
	assert.Contains(t, p.View(), "0%")
}

func TestTextInput_Counter(t *testing.T) {
	ti := NewTextInput("", 5, 0)
	ti.Model.SetValue("  abc  ")
	assert.Equal(t, 3, ti.Count())
	assert.False(t, ti.Ready())

	ti.Model.SetValue("abcdef")
	assert.True(t, ti.Ready())
	assert.True(t, strings.Contains(ti.CounterView(), "6 / 5"))
}

func TestButtonRow(t *testing.T) {
	row := ButtonRow(Button{Label: "Previous", Disabled: true}, Button{Label: "Next", Key: "→"})
	assert.Contains(t, row, "Previous")
	assert.Contains(t, row, "Next [→]")
}
