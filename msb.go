// Package msb reads and writes MapStudio Binary map files: a header
// followed by one ordered parameter table per entry supertype (Model,
// Event, Part, Region, Route), with entries cross-referencing each other
// by index rather than by pointer on disk.
//
// Loading a file happens in two passes: first every supertype's entries
// are read in full, then every entry's cross-references are resolved
// against the now-complete entry lists, since a reference can point
// forward to an entry that has not been read yet (Region-to-Region is the
// sharpest case: a Composite region's children can themselves be
// Composite regions defined later in the same file). Writing mirrors this
// in reverse: indices are populated from live references before any
// entry's header is serialized, so header offsets and index fields are
// both final by the time bytes hit the writer.
package msb

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/mapstudio/msb/event"
	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/param"
	"github.com/mapstudio/msb/model"
	"github.com/mapstudio/msb/part"
	"github.com/mapstudio/msb/region"
	"github.com/mapstudio/msb/route"
)

const (
	magic         = "MSB \x00\x00\x00\x00"
	currentVersion = 1
)

// byteOrderFlag values, written right after the magic.
const (
	flagLittleEndian = 0
	flagBigEndian    = 1
)

// The dialect-fixed param names terminating each supertype's offset table.
const (
	paramNameModels  = "MODEL_PARAM_ST"
	paramNameEvents  = "EVENT_PARAM_ST"
	paramNameParts   = "PARTS_PARAM_ST"
	paramNameRegions = "POINT_PARAM_ST"
	paramNameRoutes  = "ROUTE_PARAM_ST"
)

// MSB is one parsed map file: five ordered entry tables plus the file
// header fields needed to round-trip byte-for-byte.
type MSB struct {
	Version    int32
	BigEndian  bool

	models  *param.Param[model.Model]
	events  *param.Param[event.Event]
	parts   *param.Param[part.Part]
	regions *param.Param[region.Region]
	routes  *param.Param[route.Route]
}

// New constructs an empty MSB at the current version.
func New() *MSB {
	return &MSB{
		Version: currentVersion,
		models:  param.New[model.Model](paramNameModels, currentVersion),
		events:  param.New[event.Event](paramNameEvents, currentVersion),
		parts:   param.New[part.Part](paramNameParts, currentVersion),
		regions: param.New[region.Region](paramNameRegions, currentVersion),
		routes:  param.New[route.Route](paramNameRoutes, currentVersion),
	}
}

// Models returns the Model entry table.
func (m *MSB) Models() *param.Param[model.Model] { return m.models }

// Events returns the Event entry table.
func (m *MSB) Events() *param.Param[event.Event] { return m.events }

// Parts returns the Part entry table.
func (m *MSB) Parts() *param.Param[part.Part] { return m.parts }

// Regions returns the Region entry table.
func (m *MSB) Regions() *param.Param[region.Region] { return m.regions }

// Routes returns the Route entry table.
func (m *MSB) Routes() *param.Param[route.Route] { return m.routes }

// FindByName searches every supertype, in Model/Event/Part/Region/Route
// order, for the first entry with the given name.
func (m *MSB) FindByName(name string) (entry.Entry, bool) {
	if e, ok := m.models.FindByName(name); ok {
		return e, true
	}
	if e, ok := m.events.FindByName(name); ok {
		return e, true
	}
	if e, ok := m.parts.FindByName(name); ok {
		return e, true
	}
	if e, ok := m.regions.FindByName(name); ok {
		return e, true
	}
	if e, ok := m.routes.FindByName(name); ok {
		return e, true
	}
	return nil, false
}

// Open reads and fully resolves an MSB file from path.
func Open(path string) (*MSB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, msberr.WrapIO("opening", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, msberr.WrapIO("reading", path, err)
	}
	return m, nil
}

// Decode reads and fully resolves an MSB file from r.
func Decode(r interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}) (*MSB, error) {
	br := binio.NewReader(r)

	magicBytes, err := br.ReadBytes(len(magic))
	if err != nil {
		return nil, fmt.Errorf("msb: reading magic: %w", err)
	}
	if string(magicBytes) != magic {
		return nil, msberr.NewFormatError(0, fmt.Sprintf("bad magic %q", magicBytes))
	}

	flag, err := br.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("msb: reading byte-order flag: %w", err)
	}
	bigEndian := flag == flagBigEndian
	if bigEndian {
		br.SetByteOrder(binary.BigEndian)
	}
	if err := br.Align(8); err != nil {
		return nil, err
	}

	version, err := br.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("msb: reading version: %w", err)
	}
	if err := br.Align(8); err != nil {
		return nil, err
	}

	m := New()
	m.Version = version
	m.BigEndian = bigEndian

	if err := m.models.Deserialize(br, model.NewEntry); err != nil {
		return nil, fmt.Errorf("msb: reading Model table: %w", err)
	}
	if err := m.events.Deserialize(br, event.NewEntry); err != nil {
		return nil, fmt.Errorf("msb: reading Event table: %w", err)
	}
	if err := m.parts.Deserialize(br, part.NewEntry); err != nil {
		return nil, fmt.Errorf("msb: reading Part table: %w", err)
	}
	if err := m.regions.Deserialize(br, region.NewEntry); err != nil {
		return nil, fmt.Errorf("msb: reading Region table: %w", err)
	}
	if err := m.routes.Deserialize(br, route.NewEntryFromReader); err != nil {
		return nil, fmt.Errorf("msb: reading Route table: %w", err)
	}

	if err := m.resolveReferences(); err != nil {
		return nil, err
	}
	return m, nil
}

// resolveReferences is the read side's second pass: every supertype's
// entries are loaded, so every raw on-disk index can now be turned into a
// live pointer.
func (m *MSB) resolveReferences() error {
	models := m.models.Entries()
	parts := m.parts.Entries()
	regions := m.regions.Entries()

	for _, p := range parts {
		if err := p.ResolveReferences(models, parts); err != nil {
			return fmt.Errorf("msb: resolving Part references: %w", err)
		}
	}
	for _, r := range regions {
		if err := r.ResolveReferences(regions, parts); err != nil {
			return fmt.Errorf("msb: resolving Region references: %w", err)
		}
	}
	for _, e := range m.events.Entries() {
		if err := e.ResolveReferences(parts, regions); err != nil {
			return fmt.Errorf("msb: resolving Event references: %w", err)
		}
	}
	return nil
}

// populateIndices is the write side's first pass: every live reference is
// converted back to a raw index before any entry's header is serialized.
// Indices are taken against each param's canonical order (the order
// Serialize writes), with subtype indices assigned first.
func (m *MSB) populateIndices() error {
	models := m.models.AssignIndices()
	parts := m.parts.AssignIndices()
	regions := m.regions.AssignIndices()

	for _, p := range parts {
		if err := p.PopulateIndices(models, parts); err != nil {
			return fmt.Errorf("msb: populating Part indices: %w", err)
		}
	}
	for _, r := range regions {
		if err := r.PopulateIndices(regions, parts); err != nil {
			return fmt.Errorf("msb: populating Region indices: %w", err)
		}
	}
	for _, e := range m.events.Entries() {
		if err := e.PopulateIndices(parts, regions); err != nil {
			return fmt.Errorf("msb: populating Event indices: %w", err)
		}
	}
	return nil
}

// Write serializes the MSB to path, truncating or creating it.
func (m *MSB) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return msberr.WrapIO("creating", path, err)
	}
	defer f.Close()

	if err := m.Encode(f); err != nil {
		return msberr.WrapIO("writing", path, err)
	}
	return nil
}

// Encode serializes the MSB to w.
func (m *MSB) Encode(w interface {
	Write(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}) error {
	if err := m.populateIndices(); err != nil {
		return err
	}

	bw := binio.NewWriter(w)
	if m.BigEndian {
		bw.SetByteOrder(binary.BigEndian)
	}

	if err := bw.WriteBytes([]byte(magic)); err != nil {
		return fmt.Errorf("msb: writing magic: %w", err)
	}
	flag := uint8(flagLittleEndian)
	if m.BigEndian {
		flag = flagBigEndian
	}
	if err := bw.WriteUint8(flag); err != nil {
		return fmt.Errorf("msb: writing byte-order flag: %w", err)
	}
	if err := bw.Align(8); err != nil {
		return err
	}
	if err := bw.WriteInt32(m.Version); err != nil {
		return fmt.Errorf("msb: writing version: %w", err)
	}
	if err := bw.Align(8); err != nil {
		return err
	}

	if err := m.models.Serialize(bw); err != nil {
		return fmt.Errorf("msb: writing Model table: %w", err)
	}
	if err := m.events.Serialize(bw); err != nil {
		return fmt.Errorf("msb: writing Event table: %w", err)
	}
	if err := m.parts.Serialize(bw); err != nil {
		return fmt.Errorf("msb: writing Part table: %w", err)
	}
	if err := m.regions.Serialize(bw); err != nil {
		return fmt.Errorf("msb: writing Region table: %w", err)
	}
	if err := m.routes.Serialize(bw); err != nil {
		return fmt.Errorf("msb: writing Route table: %w", err)
	}
	return nil
}
