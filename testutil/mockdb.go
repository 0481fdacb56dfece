package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// ContactFixture is one Friend table row for CreateContactDB.
type ContactFixture struct {
	UserName string
	Remark   []byte
	Profile  []byte
	ChatRoom []byte
}

// ChatFixture is one chat table row for CreateChatDB.
type ChatFixture struct {
	CreateTime int64
	Type       int
	Des        int
	Message    string
}

// FileFixture is one Files table row for CreateManifestDB.
type FileFixture struct {
	FileID       string
	Domain       string
	RelativePath string
}

func openFixtureDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// Open is lazy; ping so the database file exists even when no
	// statement is ever executed against it.
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
	return db
}

// CreateContactDB creates a WCDB_Contact.sqlite fixture with the given
// Friend rows.
func CreateContactDB(t *testing.T, path string, contacts []ContactFixture) {
	t.Helper()
	db := openFixtureDB(t, path)
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS Friend (
		userName TEXT PRIMARY KEY,
		dbContactRemark BLOB,
		dbContactProfile BLOB,
		dbContactChatRoom BLOB
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create Friend table: %v", err)
	}

	insertSQL := "INSERT INTO Friend (userName, dbContactRemark, dbContactProfile, dbContactChatRoom) VALUES (?, ?, ?, ?)"
	for _, c := range contacts {
		if _, err := db.Exec(insertSQL, c.UserName, c.Remark, c.Profile, c.ChatRoom); err != nil {
			t.Fatalf("Failed to insert contact %s: %v", c.UserName, err)
		}
	}
}

// CreateChatDB creates a message database fixture with one Chat_<hash>
// table per entry.
func CreateChatDB(t *testing.T, path string, chats map[string][]ChatFixture) {
	t.Helper()
	db := openFixtureDB(t, path)
	defer func() { _ = db.Close() }()

	for hash, rows := range chats {
		table := "Chat_" + hash
		createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			CreateTime INTEGER,
			Type INTEGER,
			Des INTEGER,
			Message TEXT
		)`, table)
		if _, err := db.Exec(createTableSQL); err != nil {
			t.Fatalf("Failed to create table %s: %v", table, err)
		}
		insertSQL := fmt.Sprintf("INSERT INTO %q (CreateTime, Type, Des, Message) VALUES (?, ?, ?, ?)", table)
		for _, row := range rows {
			if _, err := db.Exec(insertSQL, row.CreateTime, row.Type, row.Des, row.Message); err != nil {
				t.Fatalf("Failed to insert chat row: %v", err)
			}
		}
	}
}

// CreateManifestDB creates a relational Manifest.db fixture.
func CreateManifestDB(t *testing.T, path string, files []FileFixture) {
	t.Helper()
	db := openFixtureDB(t, path)
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS Files (
		fileID TEXT PRIMARY KEY,
		domain TEXT,
		relativePath TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create Files table: %v", err)
	}

	insertSQL := "INSERT INTO Files (fileID, domain, relativePath) VALUES (?, ?, ?)"
	for _, f := range files {
		if _, err := db.Exec(insertSQL, f.FileID, f.Domain, f.RelativePath); err != nil {
			t.Fatalf("Failed to insert file %s: %v", f.FileID, err)
		}
	}
}
