package models

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptAll(s string) (string, error) {
	return "/resolved" + s, nil
}

func typeText(m *MenuModel, s string) *MenuModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(*MenuModel)
}

func press(m *MenuModel, k tea.KeyType) (*MenuModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(*MenuModel), cmd
}

func pressRune(m *MenuModel, r rune) (*MenuModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(*MenuModel), cmd
}

func TestMenuSelectsRootAndPolicy(t *testing.T) {
	m := NewMenuModel(acceptAll, organizer.PolicyType)
	m = typeText(m, "/inbox")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, stepPolicy, m.step)
	assert.Contains(t, m.View(), "/resolved/inbox")

	m, _ = press(m, tea.KeyDown)
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	assert.Equal(t, Selection{Root: "/resolved/inbox", Policy: organizer.PolicyDate}, m.Result())
}

func TestMenuRejectsInvalidRoot(t *testing.T) {
	validate := func(s string) (string, error) {
		return "", errors.New("directory does not exist: " + s)
	}

	m := NewMenuModel(validate, organizer.PolicyType)
	m = typeText(m, "/nope")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, stepRoot, m.step)
	assert.Contains(t, m.View(), "directory does not exist")

	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, stepRoot, m.step)
}

func TestMenuEmptyRootReprompts(t *testing.T) {
	m := NewMenuModel(acceptAll, organizer.PolicyType)
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, stepRoot, m.step)
	assert.Contains(t, m.View(), "enter a directory path")
}

func TestMenuNumberShortcuts(t *testing.T) {
	tests := []struct {
		key  rune
		want Selection
	}{
		{'1', Selection{Root: "/resolved/r", Policy: organizer.PolicyType}},
		{'2', Selection{Root: "/resolved/r", Policy: organizer.PolicyDate}},
		{'3', Selection{Root: "/resolved/r", Policy: organizer.PolicyDuplicates}},
		{'4', Selection{Exit: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			m := NewMenuModel(acceptAll, organizer.PolicyType)
			m = typeText(m, "/r")
			m, _ = press(m, tea.KeyEnter)
			m, _ = pressRune(m, tt.key)
			assert.Equal(t, tt.want, m.Result())
		})
	}
}

func TestMenuDefaultPolicyCursor(t *testing.T) {
	m := NewMenuModel(acceptAll, organizer.PolicyDuplicates)
	m = typeText(m, "/r")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, organizer.PolicyDuplicates, m.Result().Policy)
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel(acceptAll, organizer.PolicyType)
	m, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.True(t, m.Result().Exit)
	assert.Empty(t, m.View())

	m = NewMenuModel(acceptAll, organizer.PolicyType)
	m, _ = press(m, tea.KeyCtrlC)
	assert.True(t, m.Result().Exit)
}

func TestMenuBackToRoot(t *testing.T) {
	m := NewMenuModel(acceptAll, organizer.PolicyType)
	m = typeText(m, "/r")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyBackspace)

	assert.Equal(t, stepRoot, m.step)
	assert.True(t, strings.Contains(m.View(), "Directory:"))
}

func TestMenuResultBeforeDone(t *testing.T) {
	m := NewMenuModel(nil, organizer.PolicyType)
	assert.True(t, m.Result().Exit)
}
