package switches

import "github.com/beevik/a2core/internal/bus"

// region identifies one of the four sub-ranges within $0000-$BFFF that
// the 80-column controller routes independently, per spec.md §4.6.
type region uint8

const (
	regionZeroPageStack region = iota // $0000-$01FF
	regionTextPage1                   // $0400-$07FF
	regionHiResPage1                  // $2000-$3FFF
	regionOtherRAM                    // everything else in $0000-$BFFF
	regionCount
)

func classify(addr uint16) region {
	switch {
	case addr < 0x0200:
		return regionZeroPageStack
	case addr >= 0x0400 && addr < 0x0800:
		return regionTextPage1
	case addr >= 0x2000 && addr < 0x4000:
		return regionHiResPage1
	default:
		return regionOtherRAM
	}
}

type routingEntry struct {
	read, write source
}

// PageZeroRouter is the page-0/aux composite target from spec.md §4.6: a
// Handler installed across $0000-$BFFF in the base mapping, consulting
// a routing table the 80-column controller updates in one call
// whenever ALTZP, 80STORE, PAGE2, HIRES, RAMRD, or RAMWRT changes. It
// cannot be expressed as page-aligned layers because $0400-$07FF and
// $2000-$3FFF need independent routing that overlaps ordinary RAM
// within the same 4 KiB pages.
type PageZeroRouter struct {
	main, aux []byte
	table     [regionCount]routingEntry
}

func newPageZeroRouter(main, aux []byte) *PageZeroRouter {
	return &PageZeroRouter{main: main, aux: aux}
}

func (r *PageZeroRouter) bankFor(s source) []byte {
	if s == sourceAux {
		return r.aux
	}
	return r.main
}

// ReadHandler implements bus.Handler. offset equals the absolute
// address, since the router's mapping has VirtualBase=PhysBase=0.
func (r *PageZeroRouter) ReadHandler(offset uint16, ctx bus.AccessContext) byte {
	e := r.table[classify(offset)]
	return r.bankFor(e.read)[offset]
}

// WriteHandler implements bus.Handler.
func (r *PageZeroRouter) WriteHandler(offset uint16, value byte, ctx bus.AccessContext) {
	e := r.table[classify(offset)]
	r.bankFor(e.write)[offset] = value
}

// update recomputes every region's routing entry from the controlling
// switches. Called by Aux80Col whenever a contributing switch changes.
func (r *PageZeroRouter) update(altzp, store80, page2, hires, ramrd, ramwrt bool) {
	r.table[regionZeroPageStack] = routingEntry{srcOf(altzp), srcOf(altzp)}

	if store80 {
		r.table[regionTextPage1] = routingEntry{srcOf(page2), srcOf(page2)}
	} else {
		r.table[regionTextPage1] = routingEntry{srcOf(ramrd), srcOf(ramwrt)}
	}

	if store80 && hires {
		r.table[regionHiResPage1] = routingEntry{srcOf(page2), srcOf(page2)}
	} else {
		r.table[regionHiResPage1] = routingEntry{srcOf(ramrd), srcOf(ramwrt)}
	}

	r.table[regionOtherRAM] = routingEntry{srcOf(ramrd), srcOf(ramwrt)}
}

var _ bus.Handler = (*PageZeroRouter)(nil)
