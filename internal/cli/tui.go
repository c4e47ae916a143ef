package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// OrderPickerModel - Interactive order selection for batches
// =============================================================================

// OrderPickerModel is the bubbletea model behind "batch --pick". Every order
// starts selected; the admin deselects the ones to skip.
type OrderPickerModel struct {
	Orders    []card.Order
	Picked    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewOrderPickerModel creates a picker with every order selected.
func NewOrderPickerModel(orders []card.Order) OrderPickerModel {
	picked := make([]bool, len(orders))
	for i := range picked {
		picked[i] = true
	}
	return OrderPickerModel{
		Orders: orders,
		Picked: picked,
		Height: 15,
	}
}

func (m OrderPickerModel) Init() tea.Cmd {
	return nil
}

func (m OrderPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Orders)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Picked) > 0 {
				m.Picked[m.Cursor] = !m.Picked[m.Cursor]
			}
		case "a":
			all := m.count() < len(m.Orders)
			for i := range m.Picked {
				m.Picked[i] = all
			}
		case "enter":
			if m.count() == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m OrderPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Orders"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all/none  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Orders))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := m.Orders[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Picked[i] {
			check = "[x]"
		}

		occasion := string(o.CardDesign.Intent.Occasion)
		if occasion == "" {
			occasion = "—"
		}
		status := string(o.Status)
		if status == "" {
			status = "—"
		}
		rows = append(rows, []string{
			cursor + check,
			o.ShortID(),
			orDash(o.Recipient.Name),
			occasion,
			status,
			formatRelativeTime(o.CreatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Order", "Recipient", "Occasion", "Status", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Orders) {
				return lipgloss.NewStyle()
			}
			isCurrent := idx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = base.Foreground(colorDim)
				if isCurrent {
					base = base.Foreground(colorGray)
				}
			} else if m.Picked[idx] {
				base = base.Foreground(colorGreen)
			} else {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.count(), len(m.Orders))))

	return b.String()
}

// Selected returns the picked orders in their original order, or nil if the
// picker was quit without confirming.
func (m OrderPickerModel) Selected() []card.Order {
	if !m.Confirmed {
		return nil
	}
	var out []card.Order
	for i, o := range m.Orders {
		if m.Picked[i] {
			out = append(out, o)
		}
	}
	return out
}

func (m OrderPickerModel) count() int {
	n := 0
	for _, p := range m.Picked {
		if p {
			n++
		}
	}
	return n
}

// =============================================================================
// Helpers
// =============================================================================

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
