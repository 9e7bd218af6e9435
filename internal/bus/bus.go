package bus

import "sort"

// entry is one layer's mapping as seen from a page's resolution
// chain: the layer it belongs to (for permission checks and priority)
// plus the mapping itself.
type entry struct {
	layer   *Layer
	mapping *Mapping
}

// Bus is the memory bus fabric: a base mapping table plus a
// priority-ordered stack of overlay layers. CPU and peripheral
// accesses resolve through Read8/Write8.
type Bus struct {
	base     [numPages]*Mapping // base mapping, one slot per 4 KiB page
	pages    [numPages][]entry  // active-layer resolution chain per page, sorted by descending priority
	layers   []*Layer
	byName   map[string]*Layer
	handlers []Handler

	floatingBus byte
}

// New creates an empty bus. floatingBus is the byte value returned for
// reads that fall through every layer and the base mapping (spec.md
// §4.2's "floating bus" policy; this implementation pins it per
// machine profile rather than tracking the last-latched video byte).
func New(floatingBus byte) *Bus {
	return &Bus{
		byName:      make(map[string]*Layer),
		floatingBus: floatingBus,
	}
}

// RegisterHandler adds h to the dispatch table and returns its id, for
// use with HandlerTarget.
func (b *Bus) RegisterHandler(h Handler) int {
	b.handlers = append(b.handlers, h)
	return len(b.handlers) - 1
}

// SetBaseMapping installs m as part of the power-on layout. The base
// mapping must be page-aligned and non-overlapping; overlapping base
// mappings are a configuration error.
func (b *Bus) SetBaseMapping(m Mapping) error {
	if m.VirtualBase%pageSize != 0 || m.Size%pageSize != 0 {
		return &ConfigurationError{Op: "SetBaseMapping", Msg: "base mapping must be 4 KiB page-aligned"}
	}
	p0 := int(m.VirtualBase) >> pageBits
	pn := p0 + int(m.Size)>>pageBits
	for p := p0; p < pn; p++ {
		if b.base[p] != nil {
			return &ConfigurationError{Op: "SetBaseMapping", Msg: "overlapping base mapping"}
		}
	}
	mp := m
	for p := p0; p < pn; p++ {
		b.base[p] = &mp
	}
	return nil
}

// CreateLayer registers an empty, inactive layer with the given
// priority and default permissions (typically PermReadWrite). Two
// layers at the same priority are permitted to exist, but it is a
// configuration error for two layers at the same priority to both be
// active and cover the same address simultaneously (checked at
// activation time, since membership is dynamic).
func (b *Bus) CreateLayer(name string, priority int, defaultPerms Perms) (*Layer, error) {
	if _, exists := b.byName[name]; exists {
		return nil, &ConfigurationError{Op: "CreateLayer", Msg: "duplicate layer name " + name}
	}
	l := &Layer{id: len(b.layers), name: name, priority: priority}
	l.perms = defaultPerms
	b.layers = append(b.layers, l)
	b.byName[name] = l
	return l, nil
}

// AddLayeredMapping attaches a mapping to layer. The mapping must be
// 4 KiB page-aligned.
func (b *Bus) AddLayeredMapping(layer *Layer, m Mapping) error {
	if m.VirtualBase%pageSize != 0 || m.Size%pageSize != 0 {
		return &ConfigurationError{Op: "AddLayeredMapping", Msg: "layered mapping must be 4 KiB page-aligned"}
	}
	m.Perms = layer.perms
	layer.mappings = append(layer.mappings, m)
	if layer.active {
		b.rebuild()
	}
	return nil
}

// ActivateLayer makes name's mappings visible to resolution. It is a
// configuration error for activation to create two active,
// equal-priority layers covering the same page.
func (b *Bus) ActivateLayer(name string) error {
	l, ok := b.byName[name]
	if !ok {
		return &ConfigurationError{Op: "ActivateLayer", Msg: "unknown layer " + name}
	}
	if l.active {
		return nil
	}
	l.active = true
	if err := b.checkTieConflicts(); err != nil {
		l.active = false
		return err
	}
	b.rebuild()
	return nil
}

// DeactivateLayer hides name's mappings from resolution.
func (b *Bus) DeactivateLayer(name string) error {
	l, ok := b.byName[name]
	if !ok {
		return &ConfigurationError{Op: "DeactivateLayer", Msg: "unknown layer " + name}
	}
	if !l.active {
		return nil
	}
	l.active = false
	b.rebuild()
	return nil
}

// IsLayerActive reports whether name is currently active.
func (b *Bus) IsLayerActive(name string) bool {
	l, ok := b.byName[name]
	return ok && l.active
}

// SetLayerPermissions overrides the permission mask checked against
// every mapping belonging to name, independent of any per-mapping
// default. This is how the 80-column card expresses "aux RAM readable
// but writes fall through to main" with a single call.
func (b *Bus) SetLayerPermissions(name string, perms Perms) error {
	l, ok := b.byName[name]
	if !ok {
		return &ConfigurationError{Op: "SetLayerPermissions", Msg: "unknown layer " + name}
	}
	l.perms = perms
	for i := range l.mappings {
		l.mappings[i].Perms = perms
	}
	return nil
}

// Layer returns the named layer, or nil if it doesn't exist. It is
// exposed for peripherals that need to query priority/activity without
// going through the bus's accessor methods.
func (b *Bus) Layer(name string) *Layer { return b.byName[name] }

// checkTieConflicts reports an error if any page is covered by two or
// more distinct active layers sharing the same priority. It counts
// distinct layers, not distinct mappings, so a single layer with
// several mappings on the same page is never a conflict with itself.
func (b *Bus) checkTieConflicts() error {
	for page := 0; page < numPages; page++ {
		seenAtPriority := make(map[int]int) // priority -> layer id covering this page
		for _, l := range b.layers {
			if !l.active || !l.coversPage(page) {
				continue
			}
			if prior, ok := seenAtPriority[l.priority]; ok && prior != l.id {
				return &ConfigurationError{Op: "ActivateLayer", Msg: "equal-priority layer conflict"}
			}
			seenAtPriority[l.priority] = l.id
		}
	}
	return nil
}

// coversPage reports whether any of l's mappings cover page.
func (l *Layer) coversPage(page int) bool {
	for i := range l.mappings {
		if l.mappings[i].coversPage(page) {
			return true
		}
	}
	return false
}

func (m *Mapping) coversPage(page int) bool {
	p0 := int(m.VirtualBase) >> pageBits
	pn := p0 + int(m.Size)>>pageBits
	return page >= p0 && page < pn
}

// rebuild recomputes the per-page resolution chain. It runs only when
// a layer activates, deactivates, or gains a new mapping while active
// -- never on the hot Read8/Write8 path.
func (b *Bus) rebuild() {
	for p := range b.pages {
		b.pages[p] = b.pages[p][:0]
	}
	for _, l := range b.layers {
		if !l.active {
			continue
		}
		for i := range l.mappings {
			m := &l.mappings[i]
			p0 := int(m.VirtualBase) >> pageBits
			pn := p0 + int(m.Size)>>pageBits
			for p := p0; p < pn; p++ {
				b.pages[p] = append(b.pages[p], entry{layer: l, mapping: m})
			}
		}
	}
	for p := range b.pages {
		chain := b.pages[p]
		sort.SliceStable(chain, func(i, j int) bool {
			return chain[i].layer.priority > chain[j].layer.priority
		})
	}
}

// resolve walks the active-layer chain for addr's page, highest
// priority first, returning the first entry whose layer permits
// intent. It falls through to the base mapping if no layer matches or
// permits.
func (b *Bus) resolve(addr uint16, intent Perms) (*Mapping, bool) {
	page := int(addr) >> pageBits
	for _, e := range b.pages[page] {
		if !e.mapping.covers(addr) {
			continue
		}
		if e.layer.perms&intent != 0 {
			return e.mapping, true
		}
		// Permission denied: fall through to the next-lower layer.
	}
	if bm := b.base[page]; bm != nil && bm.covers(addr) {
		return bm, true
	}
	return nil, false
}

// Read8 resolves addr and dispatches a read.
func (b *Bus) Read8(addr uint16, ctx AccessContext) byte {
	ctx.Address = addr
	m, ok := b.resolve(addr, PermRead)
	if !ok {
		return b.floatingBus
	}
	offset := addr - m.VirtualBase
	return m.Target.read(m.PhysBase+offset, b, ctx)
}

// Write8 resolves addr and dispatches a write. Writes to unmapped
// addresses, or addresses whose resolved target denies write, are
// discarded.
func (b *Bus) Write8(addr uint16, v byte, ctx AccessContext) {
	ctx.Address = addr
	m, ok := b.resolve(addr, PermWrite)
	if !ok {
		return
	}
	offset := addr - m.VirtualBase
	m.Target.write(m.PhysBase+offset, v, b, ctx)
}

// Read16 performs two Read8 calls and composes a little-endian value,
// wrapping within the zero page when addr is itself a zero-page
// address (6502 zero-page-indexed-addressing quirk).
func (b *Bus) Read16(addr uint16, ctx AccessContext) uint16 {
	lo := b.Read8(addr, ctx)
	var hiAddr uint16
	if addr&0xFF00 == 0 {
		hiAddr = (addr + 1) & 0x00FF
	} else {
		hiAddr = addr + 1
	}
	hi := b.Read8(hiAddr, ctx)
	return uint16(lo) | uint16(hi)<<8
}

// Read16Indirect implements the JMP ($xxFF) indirect-jump bug: when
// the low byte of addr is $FF, the high byte is fetched from $xx00
// (wrapping within the page), not from addr+1.
func (b *Bus) Read16Indirect(addr uint16, ctx AccessContext) uint16 {
	lo := b.Read8(addr, ctx)
	var hiAddr uint16
	if addr&0x00FF == 0x00FF {
		hiAddr = addr &^ 0x00FF
	} else {
		hiAddr = addr + 1
	}
	hi := b.Read8(hiAddr, ctx)
	return uint16(lo) | uint16(hi)<<8
}
