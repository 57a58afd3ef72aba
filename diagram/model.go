// Package diagram turns a domain model into pages of blocks and exports
// them through a backend.
//
// A [Diagram] is what a diagram command produced: entities and links, or
// participants and messages, or a table, or activity lanes. Builders map
// it to a block tree, one per page; [Export] decorates a page with its
// annotations, measures it once, draws it into the backend for the
// requested format and writes the result.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ug/annotated"
	"github.com/gogpu/ug/config"
	"github.com/gogpu/ug/layout"
)

var (
	// ErrUnknownKind is returned for diagram or entity kinds that are
	// not supported.
	ErrUnknownKind = errors.New("diagram: unknown kind")
	// ErrUnknownEntity is returned for links naming a missing entity.
	ErrUnknownEntity = errors.New("diagram: unknown entity")
	// ErrDuplicateEntity is returned when two entities share an ID.
	ErrDuplicateEntity = errors.New("diagram: duplicate entity")
	// ErrPage is returned for a page index out of range.
	ErrPage = errors.New("diagram: page out of range")
)

// Kind is the type of diagram.
type Kind string

const (
	Description Kind = "description"
	Sequence    Kind = "sequence"
	Table       Kind = "table"
	Activity    Kind = "activity"
)

// EntityKind selects the image of an entity.
type EntityKind string

const (
	EntityClass     EntityKind = "class"
	EntityComponent EntityKind = "component"
	EntityRectangle EntityKind = "rectangle"
	EntityNote      EntityKind = "note"
	EntityFolder    EntityKind = "folder"
	EntityPackage   EntityKind = "package"
	EntityUseCase   EntityKind = "usecase"
	EntityActor     EntityKind = "actor"
	EntityImage     EntityKind = "image"
)

// Entity is a node of a description diagram.
type Entity struct {
	ID         string     `yaml:"id"`
	Kind       EntityKind `yaml:"kind"`
	Display    string     `yaml:"display,omitempty"`
	Stereotype string     `yaml:"stereotype,omitempty"`
	Members    []string   `yaml:"members,omitempty"`
	Color      string     `yaml:"color,omitempty"`
	URL        string     `yaml:"url,omitempty"`
	// Image is the file shown by image entities.
	Image string `yaml:"image,omitempty"`
}

// Name returns the text shown for the entity.
func (e Entity) Name() string {
	if e.Display != "" {
		return e.Display
	}
	return e.ID
}

// LinkStyle is the line style of a link or message.
type LinkStyle string

const (
	LinkSolid  LinkStyle = ""
	LinkDashed LinkStyle = "dashed"
	LinkDotted LinkStyle = "dotted"
	LinkBold   LinkStyle = "bold"
)

// Link connects two entities.
type Link struct {
	From  string    `yaml:"from"`
	To    string    `yaml:"to"`
	Label string    `yaml:"label,omitempty"`
	Style LinkStyle `yaml:"style,omitempty"`
	// NoHead draws the link without an arrow head.
	NoHead bool   `yaml:"noHead,omitempty"`
	Color  string `yaml:"color,omitempty"`
	// Length is the minimum rank distance; 0 means 1.
	Length int `yaml:"length,omitempty"`
	// ToMember attaches the head to a member row of the target.
	ToMember string `yaml:"toMember,omitempty"`
}

// Participant is a lifeline of a sequence diagram.
type Participant struct {
	ID      string `yaml:"id"`
	Display string `yaml:"display,omitempty"`
	// Actor draws a stick figure instead of a box.
	Actor bool   `yaml:"actor,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Name returns the text shown for the participant.
func (p Participant) Name() string {
	if p.Display != "" {
		return p.Display
	}
	return p.ID
}

// Message is an arrow between lifelines. A message with NewPage set
// starts a new page instead; its Label, if any, titles the new page.
type Message struct {
	From    string    `yaml:"from,omitempty"`
	To      string    `yaml:"to,omitempty"`
	Label   string    `yaml:"label,omitempty"`
	Style   LinkStyle `yaml:"style,omitempty"`
	NewPage bool      `yaml:"newpage,omitempty"`
}

// TableModel is the content of a table diagram.
type TableModel struct {
	Rows [][]string `yaml:"rows"`
	// Header draws the first row in bold.
	Header  bool            `yaml:"header,omitempty"`
	Borders layout.Strategy `yaml:"borders,omitempty"`
	Title   string          `yaml:"title,omitempty"`
}

// ActivityKind is the type of an activity step.
type ActivityKind string

const (
	ActivityAction ActivityKind = ""
	ActivityStart  ActivityKind = "start"
	ActivityStop   ActivityKind = "stop"
	ActivityNote   ActivityKind = "note"
)

// Step is one step of an activity lane.
type Step struct {
	Kind  ActivityKind `yaml:"kind,omitempty"`
	Label string       `yaml:"label,omitempty"`
}

// Lane is a swimlane of an activity diagram.
type Lane struct {
	Title string `yaml:"title"`
	Color string `yaml:"color,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Diagram is the domain model of one diagram.
type Diagram struct {
	Kind Kind `yaml:"kind"`
	// Source is the diagram text, embedded as metadata and shown in
	// crash reports.
	Source      string                `yaml:"source,omitempty"`
	Annotations annotated.Annotations `yaml:"annotations,omitempty"`

	Entities []Entity `yaml:"entities,omitempty"`
	Links    []Link   `yaml:"links,omitempty"`

	Participants []Participant `yaml:"participants,omitempty"`
	Messages     []Message     `yaml:"messages,omitempty"`

	Table *TableModel `yaml:"table,omitempty"`
	Lanes []Lane      `yaml:"lanes,omitempty"`

	// Skin overrides the skin of the render options when set.
	Skin *config.Skin `yaml:"skin,omitempty"`
}

// Parse decodes a YAML diagram and validates it.
func Parse(data []byte) (*Diagram, error) {
	d := new(Diagram)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("diagram: empty document")
		}
		return nil, fmt.Errorf("diagram: parse: %w", err)
	}
	if d.Skin != nil {
		// Decode the skin again over the defaults so left-out keys keep
		// their default value.
		var doc struct {
			Skin yaml.Node `yaml:"skin"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("diagram: parse: %w", err)
		}
		skin := config.DefaultSkin()
		if err := doc.Skin.Decode(skin); err != nil {
			return nil, fmt.Errorf("diagram: parse skin: %w", err)
		}
		if err := skin.Validate(); err != nil {
			return nil, err
		}
		d.Skin = skin
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and parses a YAML diagram file.
func Load(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("diagram: load: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Validate checks kinds and references.
func (d *Diagram) Validate() error {
	switch d.Kind {
	case Description:
		ids := make(map[string]bool, len(d.Entities))
		for _, e := range d.Entities {
			if ids[e.ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateEntity, e.ID)
			}
			ids[e.ID] = true
			if !e.Kind.valid() {
				return fmt.Errorf("%w: entity %q has kind %q", ErrUnknownKind, e.ID, e.Kind)
			}
		}
		for _, l := range d.Links {
			for _, id := range [2]string{l.From, l.To} {
				if !ids[id] {
					return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
				}
			}
		}
	case Sequence:
		seen := make(map[string]bool, len(d.Participants))
		for _, p := range d.Participants {
			if seen[p.ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateEntity, p.ID)
			}
			seen[p.ID] = true
		}
		for i, m := range d.Messages {
			if !m.NewPage && (m.From == "" || m.To == "") {
				return fmt.Errorf("%w: message %d has no sender or receiver", ErrUnknownEntity, i)
			}
		}
	case Table, Activity:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	return nil
}

func (k EntityKind) valid() bool {
	switch k {
	case EntityClass, EntityComponent, EntityRectangle, EntityNote, EntityFolder,
		EntityPackage, EntityUseCase, EntityActor, EntityImage:
		return true
	}
	return false
}
