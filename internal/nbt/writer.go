// Package nbt writes the subset of the Named Binary Tag format used to
// export height fields.
package nbt

import (
	"encoding/binary"
	"io"
	"math"
)

// NBT tag type IDs.
const (
	TagEnd      byte = 0
	TagInt      byte = 3
	TagLong     byte = 4
	TagDouble   byte = 6
	TagString   byte = 8
	TagList     byte = 9
	TagCompound byte = 10
)

// Writer writes big-endian NBT to an io.Writer. Write methods record the
// first error; call Err after writing.
type Writer struct {
	w   io.Writer
	err error
	buf [8]byte
}

// NewWriter creates a new NBT Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) putByte(v byte) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *Writer) putUint16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

func (w *Writer) putUint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *Writer) putUint64(v uint64) {
	binary.BigEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

func (w *Writer) putString(s string) {
	w.putUint16(uint16(len(s)))
	if len(s) > 0 {
		w.write([]byte(s))
	}
}

func (w *Writer) header(tagType byte, name string) {
	w.putByte(tagType)
	w.putString(name)
}

// BeginCompound writes a compound tag header.
func (w *Writer) BeginCompound(name string) {
	w.header(TagCompound, name)
}

// EndCompound closes the innermost compound.
func (w *Writer) EndCompound() {
	w.putByte(TagEnd)
}

// WriteInt writes a named int tag.
func (w *Writer) WriteInt(name string, v int32) {
	w.header(TagInt, name)
	w.putUint32(uint32(v))
}

// WriteLong writes a named long tag.
func (w *Writer) WriteLong(name string, v int64) {
	w.header(TagLong, name)
	w.putUint64(uint64(v))
}

// WriteDouble writes a named double tag.
func (w *Writer) WriteDouble(name string, v float64) {
	w.header(TagDouble, name)
	w.putUint64(math.Float64bits(v))
}

// WriteString writes a named string tag.
func (w *Writer) WriteString(name string, v string) {
	w.header(TagString, name)
	w.putString(v)
}

// WriteDoubleList writes a named list of doubles.
func (w *Writer) WriteDoubleList(name string, v []float64) {
	w.header(TagList, name)
	w.putByte(TagDouble)
	w.putUint32(uint32(len(v)))
	for _, d := range v {
		w.putUint64(math.Float64bits(d))
	}
}
