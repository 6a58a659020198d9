// Package cluster distributes root moves of one search across cooperating
// processes. The master owns the real root; workers serve dispatched child
// positions until they receive the terminate sentinel.
//
// Frames are big-endian, one tag byte first. Tag 0 carries work: an int32
// FEN length (0 means no work, -1 means terminate), the FEN bytes and an
// int32 depth. Tag 1 carries a result: int32 score, uint64 node delta,
// int32 PV length and the PV as uint16 wire moves.
package cluster

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	tagWork   = 0
	tagResult = 1
)

const (
	fenLenNoWork    = 0
	fenLenTerminate = -1
)

type workKind int

const (
	workSearch workKind = iota
	workNone
	workTerminate
)

func writeWork(w io.Writer, fen string, depth int) error {
	var buf = make([]byte, 0, 1+4+len(fen)+4)
	buf = append(buf, tagWork)
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(len(fen))))
	buf = append(buf, fen...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(depth)))
	var _, err = w.Write(buf)
	return err
}

func writeWorkSignal(w io.Writer, fenLen int32) error {
	var buf = make([]byte, 0, 1+4)
	buf = append(buf, tagWork)
	buf = binary.BigEndian.AppendUint32(buf, uint32(fenLen))
	var _, err = w.Write(buf)
	return err
}

func writeNoWork(w io.Writer) error {
	return writeWorkSignal(w, fenLenNoWork)
}

func writeTerminate(w io.Writer) error {
	return writeWorkSignal(w, fenLenTerminate)
}

func readWork(r io.Reader) (fen string, depth int, kind workKind, err error) {
	var tag byte
	if tag, err = readTag(r); err != nil {
		return
	}
	if tag != tagWork {
		err = fmt.Errorf("cluster: expected work frame, got tag %d", tag)
		return
	}
	var fenLen int32
	if fenLen, err = readInt32(r); err != nil {
		return
	}
	switch {
	case fenLen == fenLenTerminate:
		kind = workTerminate
		return
	case fenLen == fenLenNoWork:
		kind = workNone
		return
	case fenLen < 0 || fenLen > 256:
		err = fmt.Errorf("cluster: bad fen length %d", fenLen)
		return
	}
	var fenBytes = make([]byte, fenLen)
	if _, err = io.ReadFull(r, fenBytes); err != nil {
		return
	}
	var d int32
	if d, err = readInt32(r); err != nil {
		return
	}
	return string(fenBytes), int(d), workSearch, nil
}

func writeResult(w io.Writer, score int, nodes int64, pv []uint16) error {
	var buf = make([]byte, 0, 1+4+8+4+2*len(pv))
	buf = append(buf, tagResult)
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(score)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(nodes))
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(len(pv))))
	for _, m := range pv {
		buf = binary.BigEndian.AppendUint16(buf, m)
	}
	var _, err = w.Write(buf)
	return err
}

func readResult(r io.Reader) (score int, nodes int64, pv []uint16, err error) {
	var tag byte
	if tag, err = readTag(r); err != nil {
		return
	}
	if tag != tagResult {
		err = fmt.Errorf("cluster: expected result frame, got tag %d", tag)
		return
	}
	var s int32
	if s, err = readInt32(r); err != nil {
		return
	}
	var n uint64
	if err = binary.Read(r, binary.BigEndian, &n); err != nil {
		return
	}
	var pvLen int32
	if pvLen, err = readInt32(r); err != nil {
		return
	}
	if pvLen < 0 || pvLen > stackLimit {
		err = fmt.Errorf("cluster: bad pv length %d", pvLen)
		return
	}
	pv = make([]uint16, pvLen)
	for i := range pv {
		var m uint16
		if err = binary.Read(r, binary.BigEndian, &m); err != nil {
			return
		}
		pv[i] = m
	}
	return int(s), int64(n), pv, nil
}

// longest PV a worker can produce
const stackLimit = 128

func readTag(r io.Reader) (byte, error) {
	var b [1]byte
	var _, err = io.ReadFull(r, b[:])
	return b[0], err
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}
