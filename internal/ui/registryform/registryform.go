// Package registryform is the terminal front end for the hospital registry:
// a hospital section, a doctor section and a DNI search section, with a modal
// dialog reporting the result of every action.
package registryform

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hospreg/hospreg/internal/domain/registry"
)

// Registry is the part of the registry service the form drives.
type Registry interface {
	SetFacility(ctx context.Context, name string) (string, error)
	AddPractitioner(ctx context.Context, id, name, specialty string) (string, error)
	FindByID(ctx context.Context, id string) (registry.Practitioner, error)
}

// Field identifies which input is focused.
type Field int

const (
	FieldHospital Field = iota
	FieldDNI
	FieldName
	FieldSpecialty
	FieldSearch
	fieldCount
)

// Kind selects the dialog styling. It has no effect beyond presentation.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// Dialog is the modal acknowledgment shown after an action.
type Dialog struct {
	Title   string
	Message string
	Kind    Kind
}

// Model holds the form state.
type Model struct {
	ctx     context.Context
	reg     Registry
	keys    KeyMap
	inputs  [fieldCount]textinput.Model
	focused Field
	dialog  *Dialog
	result  *registry.Row
	width   int
	height  int
}

// New creates a form bound to reg. ctx is passed to every registry call.
func New(ctx context.Context, reg Registry) Model {
	placeholders := [fieldCount]string{
		FieldHospital:  "Hospital name",
		FieldDNI:       "DNI (digits only)",
		FieldName:      "Doctor name",
		FieldSpecialty: "Specialty",
		FieldSearch:    "DNI to search",
	}

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[FieldHospital].Focus()

	return Model{
		ctx:     ctx,
		reg:     reg,
		keys:    DefaultKeyMap(),
		inputs:  inputs,
		focused: FieldHospital,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		// The dialog is modal: it swallows keys until dismissed.
		if m.dialog != nil {
			if key.Matches(msg, m.keys.Dismiss) {
				m.dialog = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit(), nil
		case key.Matches(msg, m.keys.Next):
			return m.focus((m.focused + 1) % fieldCount), nil
		case key.Matches(msg, m.keys.Prev):
			return m.focus((m.focused + fieldCount - 1) % fieldCount), nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) focus(f Field) Model {
	m.inputs[m.focused].Blur()
	m.focused = f
	m.inputs[m.focused].Focus()
	return m
}

// submit runs the action for the section that owns the focused field.
func (m Model) submit() Model {
	switch m.focused {
	case FieldHospital:
		return m.setHospital()
	case FieldDNI, FieldName, FieldSpecialty:
		return m.addDoctor()
	default:
		return m.search()
	}
}

func (m Model) setHospital() Model {
	msg, err := m.reg.SetFacility(m.ctx, m.inputs[FieldHospital].Value())
	m.dialog = resultDialog("Set Hospital", msg, err)
	return m
}

func (m Model) addDoctor() Model {
	msg, err := m.reg.AddPractitioner(m.ctx,
		m.inputs[FieldDNI].Value(),
		m.inputs[FieldName].Value(),
		m.inputs[FieldSpecialty].Value(),
	)
	m.dialog = resultDialog("Add Doctor", msg, err)
	if err == nil {
		m.inputs[FieldDNI].Reset()
		m.inputs[FieldName].Reset()
		m.inputs[FieldSpecialty].Reset()
		m = m.focus(FieldDNI)
	}
	return m
}

func (m Model) search() Model {
	id := m.inputs[FieldSearch].Value()
	p, err := m.reg.FindByID(m.ctx, id)
	if err != nil {
		m.result = nil
		m.dialog = &Dialog{Title: "Not Found", Message: registry.NotFoundMessage(id), Kind: KindInfo}
		return m
	}
	row := p.Row()
	m.result = &row
	return m
}

func resultDialog(title, msg string, err error) *Dialog {
	if err != nil {
		return &Dialog{Title: title, Message: err.Error(), Kind: KindError}
	}
	return &Dialog{Title: title, Message: msg, Kind: KindSuccess}
}

// Dialog returns the open dialog, or nil.
func (m Model) Dialog() *Dialog {
	return m.dialog
}

// Result returns the row shown in the search table, or nil when empty.
func (m Model) Result() *registry.Row {
	return m.result
}

// Value returns the current text of a field.
func (m Model) Value(f Field) string {
	return m.inputs[f].Value()
}

// Focused returns the focused field.
func (m Model) Focused() Field {
	return m.focused
}

// View renders the form, with the dialog on top when one is open.
func (m Model) View() string {
	form := m.renderForm()
	if m.dialog == nil {
		return form
	}
	box := renderDialog(*m.dialog)
	if m.width == 0 || m.height == 0 {
		return form + "\n\n" + box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Hospital Information System"))
	b.WriteString("\n\n")

	b.WriteString(m.renderSection("Hospital", []Field{FieldHospital}, []string{"Name"}))
	b.WriteString("\n")
	b.WriteString(m.renderSection("Add Doctor", []Field{FieldDNI, FieldName, FieldSpecialty},
		[]string{"DNI", "Name", "Specialty"}))
	b.WriteString("\n")
	b.WriteString(m.renderSection("Search by DNI", []Field{FieldSearch}, []string{"DNI"}))
	b.WriteString("\n")
	b.WriteString(renderTable(m.result))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine(m.keys)))
	return b.String()
}

func (m Model) renderSection(title string, fields []Field, labels []string) string {
	active := false
	rows := make([]string, len(fields))
	for i, f := range fields {
		prefix := "  "
		if f == m.focused {
			prefix = "> "
			active = true
		}
		rows[i] = prefix + labelStyle.Render(labels[i]) + m.inputs[f].View()
	}

	border := sectionStyle
	if active {
		border = sectionFocusedStyle
	}
	return border.Render(sectionTitleStyle.Render(title) + "\n" + strings.Join(rows, "\n"))
}

func helpLine(k KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
