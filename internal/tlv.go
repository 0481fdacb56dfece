package internal

import "strings"

// Remark is the decoded dbContactRemark blob: the names a contact is known
// by.
type Remark struct {
	Nickname     string
	Alias        string // the wechat alias ("wechat id")
	DisplayName  string // user-assigned remark name
	ChatRoomName string // chatroom display name, doubles as nickname fallback
}

// Profile is the decoded dbContactProfile blob.
type Profile struct {
	Gender    string
	Country   string
	State     string
	City      string
	Signature string
}

// fieldKind is the closed set of TLV field decoder variants.
type fieldKind int

const (
	fieldString  fieldKind = iota // 1-byte length, UTF-8 payload, kept
	fieldDiscard                  // 1-byte length, payload consumed and dropped
	fieldEnumByte                 // single enumerated byte, no length prefix
)

// Remark tags. 0x22/0x2a carry auto-generated phonetic variants of the
// display name, 0x42 carries labels; their payloads are consumed but not
// kept.
var remarkSchema = map[byte]fieldKind{
	0x0a: fieldString,  // nickname
	0x12: fieldString,  // wechat alias
	0x1a: fieldString,  // display name
	0x22: fieldDiscard, // display name pinyin
	0x2a: fieldDiscard, // display name initials
	0x32: fieldString,  // nickname pinyin, or chatroom display name
	0x3a: fieldDiscard,
	0x42: fieldDiscard, // labels
}

var profileSchema = map[byte]fieldKind{
	0x08: fieldEnumByte, // gender
	0x12: fieldString,   // country
	0x1a: fieldString,   // state/province
	0x22: fieldString,   // city
	0x2a: fieldString,   // signature
}

var genderNames = map[byte]string{
	1: "male",
	2: "female",
}

// readTLVValue reads a 1-byte length prefix and its payload at offset,
// returning the payload as text and the new offset. Payload bytes are
// passed through unvalidated; a value that is not well-formed UTF-8 keeps
// its raw bytes rather than being replaced or escaped.
func readTLVValue(buf []byte, offset int) (string, int, error) {
	if offset >= len(buf) {
		return "", offset, truncated(offset, 1, 0)
	}
	length := int(buf[offset])
	offset++
	end := offset + length
	if end > len(buf) {
		return "", offset, truncated(offset, length, len(buf)-offset)
	}
	return string(buf[offset:end]), end, nil
}

// decodeTLV walks buf one tag at a time, dispatching each tag through the
// schema and handing kept string values to assign. Tags outside the schema
// are consumed with the generic length-prefixed reader and recorded as
// anomalies; decoding continues. Only a length prefix claiming more bytes
// than remain aborts the decode.
func decodeTLV(buf []byte, schema map[byte]fieldKind, blob string, assign func(tag byte, val string), diag *Diag) error {
	offset := 0
	for offset < len(buf) {
		tag := buf[offset]
		offset++

		kind, known := schema[tag]
		if !known {
			kind = fieldDiscard
			diag.Anomalyf("unknown %s tag 0x%02x at offset %d", blob, tag, offset-1)
		}

		switch kind {
		case fieldEnumByte:
			if offset >= len(buf) {
				return truncated(offset, 1, 0)
			}
			assign(tag, genderNames[buf[offset]])
			offset++
		default:
			val, next, err := readTLVValue(buf, offset)
			if err != nil {
				return err
			}
			if kind == fieldString {
				assign(tag, val)
			}
			offset = next
		}
	}
	return nil
}

// ParseRemark decodes a dbContactRemark blob. A nil or empty blob decodes
// to the zero value.
func ParseRemark(buf []byte, diag *Diag) (Remark, error) {
	var r Remark
	err := decodeTLV(buf, remarkSchema, "remark", func(tag byte, val string) {
		switch tag {
		case 0x0a:
			r.Nickname = val
		case 0x12:
			r.Alias = val
		case 0x1a:
			r.DisplayName = val
		case 0x32:
			r.ChatRoomName = val
		}
	}, diag)
	return r, err
}

// ParseProfile decodes a dbContactProfile blob. Unrecognized gender codes
// yield an empty gender.
func ParseProfile(buf []byte, diag *Diag) (Profile, error) {
	var p Profile
	err := decodeTLV(buf, profileSchema, "profile", func(tag byte, val string) {
		switch tag {
		case 0x08:
			p.Gender = val
		case 0x12:
			p.Country = val
		case 0x1a:
			p.State = val
		case 0x22:
			p.City = val
		case 0x2a:
			p.Signature = val
		}
	}, diag)
	return p, err
}

// ParseChatRoom decodes a dbContactChatRoom blob into its member account
// identifiers. The blob is a fixed 1-byte marker, a length, and a UTF-8
// payload of ";"-separated ids. The length is one byte unless that byte's
// high bit is set, in which case the low 7 bits combine with the following
// byte: (b & 0x7F) | (next << 7).
func ParseChatRoom(buf []byte) ([]string, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf) < 2 {
		return nil, truncated(1, 1, 0)
	}
	length := int(buf[1])
	offset := 2
	if length&0x80 != 0 {
		if len(buf) < 3 {
			return nil, truncated(2, 1, 0)
		}
		length = (length & 0x7F) | int(buf[2])<<7
		offset = 3
	}
	end := offset + length
	if end > len(buf) {
		return nil, truncated(offset, length, len(buf)-offset)
	}
	return strings.Split(string(buf[offset:end]), ";"), nil
}
