package persist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
)

// Format constants
const (
	// Magic opens every snapshot
	Magic = "HYDR"

	// FormatVersion is the snapshot layout version
	FormatVersion uint8 = 1

	// ComponentVersion is the leading tag of every encoded component
	ComponentVersion uint8 = 1
)

// Codec errors
var (
	ErrBadMagic           = errors.New("not a hydrosim snapshot")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrCorrupt            = errors.New("corrupt snapshot")
)

// Component mask bits, encoded in this order
const (
	maskSource uint16 = 1 << iota
	maskPosition
	maskOwner
	maskAutofill
	maskDetention
	maskRetention
	maskSeasonal
	maskTides

	maskKnown     = maskTides<<1 - 1
	maskBehaviors = maskAutofill | maskDetention | maskRetention | maskSeasonal | maskTides
)

// Encode writes snap to w
func Encode(w io.Writer, snap Snapshot) error {
	enc := &encoder{buf: make([]byte, 0, 64+len(snap.Records)*48)}

	enc.buf = append(enc.buf, Magic...)
	enc.u8(FormatVersion)
	enc.buf = append(enc.buf, snap.Session[:]...)
	enc.u64(uint64(snap.Frame))
	enc.u32(uint32(len(snap.Records)))

	for i := range snap.Records {
		if err := enc.record(&snap.Records[i]); err != nil {
			return fmt.Errorf("encode entity %d: %w", snap.Records[i].Entity, err)
		}
	}

	if _, err := w.Write(enc.buf); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot, rejecting unknown versions
func Decode(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory snapshot
func DecodeBytes(data []byte) (Snapshot, error) {
	var snap Snapshot

	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return snap, ErrBadMagic
	}
	dec := &decoder{data: data, off: len(Magic)}

	if v := dec.u8(); dec.err == nil && v != FormatVersion {
		return snap, fmt.Errorf("snapshot format %d: %w", v, ErrUnsupportedVersion)
	}
	copy(snap.Session[:], dec.bytes(16))
	snap.Frame = int64(dec.u64())
	count := dec.u32()
	if dec.err != nil {
		return snap, dec.err
	}

	// Every record is at least id + mask
	if int64(count)*10 > int64(len(data)-dec.off) {
		return snap, fmt.Errorf("%w: %d records in %d bytes", ErrCorrupt, count, len(data)-dec.off)
	}

	snap.Records = make([]Record, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := dec.record()
		if err != nil {
			return snap, fmt.Errorf("decode record %d: %w", i, err)
		}
		snap.Records = append(snap.Records, rec)
	}
	if dec.off != len(data) {
		return snap, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-dec.off)
	}
	return snap, nil
}

// === Encoder ===

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) u16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }
func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *encoder) i32(v int32)  { e.u32(uint32(v)) }
func (e *encoder) f32(v float32) {
	e.u32(math.Float32bits(v))
}

func (e *encoder) record(r *Record) error {
	mask := maskSource | maskPosition
	if r.Owner != nil {
		mask |= maskOwner
	}
	switch r.Behavior.(type) {
	case nil:
	case component.AutofillingLakeComponent:
		mask |= maskAutofill
	case component.DetentionBasinComponent:
		mask |= maskDetention
	case component.RetentionBasinComponent:
		mask |= maskRetention
	case component.SeasonalStreamComponent:
		mask |= maskSeasonal
	case component.TidesAndWavesComponent:
		mask |= maskTides
	default:
		return fmt.Errorf("%w: behavior %T", ErrCorrupt, r.Behavior)
	}

	e.u64(uint64(r.Entity))
	e.u16(mask)

	e.u8(ComponentVersion)
	e.f32(r.Source.Amount)
	e.i32(int32(r.Source.DepthMode))
	e.f32(r.Source.Radius)
	e.f32(r.Source.Multiplier)
	e.f32(r.Source.Polluted)

	e.u8(ComponentVersion)
	e.f32(r.Position.X)
	e.f32(r.Position.Y)
	e.f32(r.Position.Z)

	if r.Owner != nil {
		e.u8(ComponentVersion)
		e.u64(uint64(r.Owner.Owner))
	}

	switch b := r.Behavior.(type) {
	case component.AutofillingLakeComponent:
		e.u8(ComponentVersion)
		e.f32(b.MaxHeight)
	case component.DetentionBasinComponent:
		e.u8(ComponentVersion)
		e.f32(b.MaxHeight)
		e.f32(b.SnowAccumulation)
	case component.RetentionBasinComponent:
		e.u8(ComponentVersion)
		e.f32(b.MaxHeight)
		e.f32(b.MinHeight)
		e.f32(b.SnowAccumulation)
	case component.SeasonalStreamComponent:
		e.u8(ComponentVersion)
		e.f32(b.OriginalAmount)
		e.f32(b.SnowAccumulation)
	case component.TidesAndWavesComponent:
		e.u8(ComponentVersion)
		e.f32(b.OriginalAmount)
	}
	return nil
}

// === Decoder ===

// decoder reads little-endian fields; the first short read sticks in err
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return make([]byte, n)
	}
	if d.off+n > len(d.data) {
		d.err = fmt.Errorf("%w: truncated at offset %d", ErrCorrupt, d.off)
		return make([]byte, n)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8    { return d.bytes(1)[0] }
func (d *decoder) u16() uint16  { return binary.LittleEndian.Uint16(d.bytes(2)) }
func (d *decoder) u32() uint32  { return binary.LittleEndian.Uint32(d.bytes(4)) }
func (d *decoder) u64() uint64  { return binary.LittleEndian.Uint64(d.bytes(8)) }
func (d *decoder) i32() int32   { return int32(d.u32()) }
func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }

// version consumes a component tag and fails closed on anything but the current version
func (d *decoder) version(name string) {
	v := d.u8()
	if d.err == nil && v != ComponentVersion {
		d.err = fmt.Errorf("%s version %d: %w", name, v, ErrUnsupportedVersion)
	}
}

func (d *decoder) record() (Record, error) {
	var r Record
	r.Entity = core.Entity(d.u64())
	mask := d.u16()
	if d.err != nil {
		return r, d.err
	}

	if mask&^maskKnown != 0 || mask&maskSource == 0 || mask&maskPosition == 0 {
		return r, fmt.Errorf("%w: component mask %#04x", ErrCorrupt, mask)
	}
	if b := mask & maskBehaviors; b&(b-1) != 0 {
		return r, fmt.Errorf("%w: more than one behavior in mask %#04x", ErrCorrupt, mask)
	}

	d.version("source")
	r.Source = component.WaterSourceComponent{
		Amount:     d.f32(),
		DepthMode:  component.DepthMode(d.i32()),
		Radius:     d.f32(),
		Multiplier: d.f32(),
		Polluted:   d.f32(),
	}
	if d.err == nil && !r.Source.DepthMode.Valid() {
		return r, fmt.Errorf("%w: depth mode %d", ErrCorrupt, r.Source.DepthMode)
	}

	d.version("position")
	r.Position = component.PositionComponent{X: d.f32(), Y: d.f32(), Z: d.f32()}

	if mask&maskOwner != 0 {
		d.version("owner")
		r.Owner = &component.OwnerComponent{Owner: core.Entity(d.u64())}
	}

	switch {
	case mask&maskAutofill != 0:
		d.version("autofilling lake")
		r.Behavior = component.AutofillingLakeComponent{MaxHeight: d.f32()}
	case mask&maskDetention != 0:
		d.version("detention basin")
		r.Behavior = component.DetentionBasinComponent{MaxHeight: d.f32(), SnowAccumulation: d.f32()}
	case mask&maskRetention != 0:
		d.version("retention basin")
		r.Behavior = component.RetentionBasinComponent{MaxHeight: d.f32(), MinHeight: d.f32(), SnowAccumulation: d.f32()}
	case mask&maskSeasonal != 0:
		d.version("seasonal stream")
		r.Behavior = component.SeasonalStreamComponent{OriginalAmount: d.f32(), SnowAccumulation: d.f32()}
	case mask&maskTides != 0:
		d.version("tides and waves")
		r.Behavior = component.TidesAndWavesComponent{OriginalAmount: d.f32()}
	}

	return r, d.err
}

// NewSession returns a fresh snapshot session id
func NewSession() uuid.UUID {
	return uuid.New()
}
