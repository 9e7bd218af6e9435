package bus

import "fmt"

// pageBits is the granularity at which layered mappings may start and
// end: 4 KiB, per spec. Finer-grained routing (zero page, the text
// pages, the hi-res pages) is handled by Handler targets installed at
// this granularity, not by smaller mappings.
const (
	pageBits = 12
	pageSize = 1 << pageBits
	numPages = 0x10000 / pageSize
)

// ConfigurationError reports a mistake detected at bus-construction or
// layer-configuration time: overlapping base mappings, a mapping that
// isn't page-aligned, or an equal-priority layer conflict.
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("bus: %s: %s", e.Op, e.Msg)
}

// RegionTag names the kind of region a mapping serves, for
// introspection/debugging only; it has no effect on resolution.
type RegionTag string

// Mapping is a single {virtual_base, size, target, phys_base, perms,
// region_tag} record, as specified in spec.md §3.
type Mapping struct {
	VirtualBase uint16
	Size        uint32
	Target      Target
	PhysBase    uint16
	Perms       Perms
	RegionTag   RegionTag
}

func (m *Mapping) covers(addr uint16) bool {
	return addr >= m.VirtualBase && uint32(addr) < uint32(m.VirtualBase)+uint32(m.Size)
}

// Layer is a named, integer-priority collection of mappings that can
// be activated or deactivated atomically. Layers may share a priority;
// activating a layer is rejected if it would leave two active layers of
// equal priority covering the same page.
type Layer struct {
	id       int
	name     string
	priority int
	active   bool
	perms    Perms
	mappings []Mapping
}

func (l *Layer) Name() string        { return l.name }
func (l *Layer) Priority() int       { return l.priority }
func (l *Layer) IsActive() bool      { return l.active }
func (l *Layer) Permissions() Perms  { return l.perms }
func (l *Layer) Mappings() []Mapping { return l.mappings }
