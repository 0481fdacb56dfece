package testutil

import (
	"encoding/binary"
)

// ManifestRecord describes one file entry for BuildManifest.
type ManifestRecord struct {
	Domain       string
	RelativePath string
	Size         int64
	Properties   map[string]string
}

// AppendInt appends an n-byte big-endian integer.
func AppendInt(buf []byte, value uint64, n int) []byte {
	tmp := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp, value)
	return append(buf, tmp[8-n:]...)
}

// AppendBlob appends a 2-byte big-endian length prefix and the payload.
func AppendBlob(buf, payload []byte) []byte {
	buf = AppendInt(buf, uint64(len(payload)), 2)
	return append(buf, payload...)
}

// AppendString appends a length-prefixed string field.
func AppendString(buf []byte, s string) []byte {
	return AppendBlob(buf, []byte(s))
}

// AppendAbsent appends the 0xFFFF absent-field sentinel.
func AppendAbsent(buf []byte) []byte {
	return append(buf, 0xFF, 0xFF)
}

// AppendManifestRecord appends one full binary manifest record.
func AppendManifestRecord(buf []byte, rec ManifestRecord) []byte {
	buf = AppendString(buf, rec.Domain)
	buf = AppendString(buf, rec.RelativePath)
	buf = AppendAbsent(buf) // link target
	buf = AppendAbsent(buf) // data hash
	buf = AppendAbsent(buf) // unknown string
	buf = AppendInt(buf, 0o100644, 2)
	buf = AppendInt(buf, 0, 4)
	buf = AppendInt(buf, 0, 4)
	buf = AppendInt(buf, 501, 4) // uid
	buf = AppendInt(buf, 501, 4) // gid
	buf = AppendInt(buf, 1500000000, 4)
	buf = AppendInt(buf, 1500000000, 4)
	buf = AppendInt(buf, 1500000000, 4)
	buf = AppendInt(buf, uint64(rec.Size), 8)
	buf = AppendInt(buf, 0, 1)
	buf = AppendInt(buf, uint64(len(rec.Properties)), 1)
	for name, value := range rec.Properties {
		buf = AppendString(buf, name)
		buf = AppendBlob(buf, []byte(value))
	}
	return buf
}

// BuildManifest builds a complete binary manifest buffer: magic tag, the
// two fixed header bytes, then the records back to back.
func BuildManifest(records ...ManifestRecord) []byte {
	buf := []byte("mbdb\x05\x00")
	for _, rec := range records {
		buf = AppendManifestRecord(buf, rec)
	}
	return buf
}

// TLVField encodes one tag + 1-byte-length + payload field.
func TLVField(tag byte, value string) []byte {
	out := []byte{tag, byte(len(value))}
	return append(out, value...)
}

// GenderField encodes the fixed 2-byte gender field of a profile blob.
func GenderField(code byte) []byte {
	return []byte{0x08, code}
}

// RemarkBlob encodes a contact remark blob from nickname, alias and
// display name. Empty values are omitted.
func RemarkBlob(nickname, alias, displayName string) []byte {
	var out []byte
	if nickname != "" {
		out = append(out, TLVField(0x0a, nickname)...)
	}
	if alias != "" {
		out = append(out, TLVField(0x12, alias)...)
	}
	if displayName != "" {
		out = append(out, TLVField(0x1a, displayName)...)
	}
	return out
}

// ChatRoomBlob encodes a group membership blob, picking the one- or
// two-byte length form the payload size requires.
func ChatRoomBlob(members string) []byte {
	payload := []byte(members)
	out := []byte{0x0a}
	if len(payload) < 0x80 {
		out = append(out, byte(len(payload)))
	} else {
		out = append(out, byte(len(payload)&0x7F|0x80), byte(len(payload)>>7))
	}
	return append(out, payload...)
}
