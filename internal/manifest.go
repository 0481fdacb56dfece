package internal

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"strconv"
)

// FileRecord is one entry in a backup manifest: the mapping from a logical
// domain+path to the file's on-disk storage location.
type FileRecord struct {
	Domain       string
	RelativePath string
	LinkTarget   string
	DataHash     []byte
	Mode         int
	UID          int
	GID          int
	MTime        int64
	ATime        int64
	CTime        int64
	Size         int64
	Flag         byte
	Properties   map[string][]byte

	// StorageKey locates the file's content inside the backup directory.
	// Binary manifests store files flat under SHA1(domain-relativePath);
	// relational manifests store them under fileID[:2]/fileID. The two key
	// spaces are not compatible.
	StorageKey string
}

var mbdbMagic = []byte("mbdb")

// readInt reads an n-byte big-endian integer at offset and returns the
// value and the new offset.
func readInt(data []byte, offset, n int) (uint64, int, error) {
	if offset+n > len(data) {
		return 0, offset, truncated(offset, n, len(data)-offset)
	}
	var value uint64
	for i := 0; i < n; i++ {
		value = value<<8 | uint64(data[offset+i])
	}
	return value, offset + n, nil
}

// readBytes reads a 2-byte big-endian length followed by that many payload
// bytes. The two-byte sentinel 0xFFFF encodes an absent field and decodes
// to the empty byte string (a present-but-zero-length field cannot
// otherwise be expressed in this format).
func readBytes(data []byte, offset int) ([]byte, int, error) {
	if offset+2 > len(data) {
		return nil, offset, truncated(offset, 2, len(data)-offset)
	}
	if data[offset] == 0xFF && data[offset+1] == 0xFF {
		return []byte{}, offset + 2, nil
	}
	length, offset, err := readInt(data, offset, 2)
	if err != nil {
		return nil, offset, err
	}
	end := offset + int(length)
	if end > len(data) {
		return nil, offset, truncated(offset, int(length), len(data)-offset)
	}
	return data[offset:end], end, nil
}

func readString(data []byte, offset int) (string, int, error) {
	value, offset, err := readBytes(data, offset)
	if err != nil {
		return "", offset, err
	}
	return string(value), offset, nil
}

// DecodeManifestBuffer decodes a binary (mbdb) manifest into records keyed
// by each record's start offset. A bad magic tag is a FormatError; any
// read past the end of the buffer is a TruncatedDataError and no partial
// record is emitted.
func DecodeManifestBuffer(data []byte) (map[string]*FileRecord, error) {
	if len(data) < 6 || !bytes.Equal(data[:4], mbdbMagic) {
		return nil, &FormatError{Msg: "missing mbdb magic tag"}
	}
	offset := 6 // 4-byte magic plus 2 unexplained header bytes (0x05 0x00)

	records := make(map[string]*FileRecord)
	for offset < len(data) {
		start := offset
		rec, next, err := decodeFileRecord(data, offset)
		if err != nil {
			return nil, err
		}
		rec.StorageKey = StorageKey(rec.Domain, rec.RelativePath)
		records[strconv.Itoa(start)] = rec
		offset = next
	}
	return records, nil
}

func decodeFileRecord(data []byte, offset int) (*FileRecord, int, error) {
	var rec FileRecord
	var err error

	if rec.Domain, offset, err = readString(data, offset); err != nil {
		return nil, offset, err
	}
	if rec.RelativePath, offset, err = readString(data, offset); err != nil {
		return nil, offset, err
	}
	if rec.LinkTarget, offset, err = readString(data, offset); err != nil {
		return nil, offset, err
	}
	if rec.DataHash, offset, err = readBytes(data, offset); err != nil {
		return nil, offset, err
	}
	// One short string of unknown meaning sits between the hash and the
	// stat block.
	if _, offset, err = readString(data, offset); err != nil {
		return nil, offset, err
	}

	ints := []struct {
		n   int
		dst func(uint64)
	}{
		{2, func(v uint64) { rec.Mode = int(v) }},
		{4, func(uint64) {}}, // reserved
		{4, func(uint64) {}}, // reserved
		{4, func(v uint64) { rec.UID = int(v) }},
		{4, func(v uint64) { rec.GID = int(v) }},
		{4, func(v uint64) { rec.MTime = int64(v) }},
		{4, func(v uint64) { rec.ATime = int64(v) }},
		{4, func(v uint64) { rec.CTime = int64(v) }},
		{8, func(v uint64) { rec.Size = int64(v) }},
	}
	for _, f := range ints {
		var v uint64
		if v, offset, err = readInt(data, offset, f.n); err != nil {
			return nil, offset, err
		}
		f.dst(v)
	}

	var flag, numProps uint64
	if flag, offset, err = readInt(data, offset, 1); err != nil {
		return nil, offset, err
	}
	rec.Flag = byte(flag)
	if numProps, offset, err = readInt(data, offset, 1); err != nil {
		return nil, offset, err
	}

	rec.Properties = make(map[string][]byte, numProps)
	for i := 0; i < int(numProps); i++ {
		var name string
		var value []byte
		if name, offset, err = readString(data, offset); err != nil {
			return nil, offset, err
		}
		if value, offset, err = readBytes(data, offset); err != nil {
			return nil, offset, err
		}
		rec.Properties[name] = value
	}
	return &rec, offset, nil
}

// loadManifestDB decodes a relational (Manifest.db) manifest into records
// keyed by fileID.
func loadManifestDB(db *sql.DB) (map[string]*FileRecord, error) {
	files, err := QueryManifestFiles(db)
	if err != nil {
		return nil, err
	}
	records := make(map[string]*FileRecord, len(files))
	for _, f := range files {
		if len(f.FileID) < 2 {
			return nil, &FormatError{Msg: fmt.Sprintf("manifest fileID %q too short for a storage path", f.FileID)}
		}
		records[f.FileID] = &FileRecord{
			Domain:       f.Domain,
			RelativePath: f.RelativePath,
			StorageKey:   f.FileID[:2] + "/" + f.FileID,
		}
	}
	return records, nil
}

var sqliteHeader = []byte("SQLite format 3\x00")

// LoadManifest reads a manifest file and decodes it with whichever
// strategy its header selects: the mbdb magic tag picks the binary
// decoder, the SQLite header picks the relational one. The two strategies
// produce the same record type but key it differently.
func LoadManifest(path string, diag *Diag) (map[string]*FileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], mbdbMagic):
		diag.Debugf("decoding binary manifest %s (%d bytes)", path, len(data))
		return DecodeManifestBuffer(data)
	case len(data) >= len(sqliteHeader) && bytes.Equal(data[:len(sqliteHeader)], sqliteHeader):
		diag.Debugf("decoding relational manifest %s", path)
		db, err := OpenDatabase(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		return loadManifestDB(db)
	default:
		return nil, &FormatError{Path: path, Msg: "neither an mbdb nor a SQLite manifest"}
	}
}
