package internal

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Path: path}
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// ManifestFile is one row of a relational manifest's Files table.
type ManifestFile struct {
	FileID       string
	Domain       string
	RelativePath string
}

// QueryManifestFiles reads the Files table of a Manifest.db.
func QueryManifestFiles(db *sql.DB) ([]ManifestFile, error) {
	rows, err := db.Query("SELECT fileID, domain, relativePath FROM Files WHERE relativePath != ''")
	if err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}
	defer rows.Close()

	var files []ManifestFile
	for rows.Next() {
		var f ManifestFile
		if err := rows.Scan(&f.FileID, &f.Domain, &f.RelativePath); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return files, nil
}

// FriendRow is one row of the contact database's Friend table. The three
// blob columns are opaque TLV encodings; NULL columns scan as nil.
type FriendRow struct {
	UserName string
	Remark   []byte
	Profile  []byte
	ChatRoom []byte
}

// QueryFriendRows reads the Friend table of WCDB_Contact.sqlite.
func QueryFriendRows(db *sql.DB) ([]FriendRow, error) {
	rows, err := db.Query("SELECT userName, dbContactRemark, dbContactProfile, dbContactChatRoom FROM Friend")
	if err != nil {
		return nil, fmt.Errorf("friend query failed: %w", err)
	}
	defer rows.Close()

	var friends []FriendRow
	for rows.Next() {
		var f FriendRow
		if err := rows.Scan(&f.UserName, &f.Remark, &f.Profile, &f.ChatRoom); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return friends, nil
}

// ChatTablePrefix is the naming convention chat tables follow: the prefix
// plus the owner contact's identity hash.
const ChatTablePrefix = "Chat_"

var chatTablePattern = regexp.MustCompile(`^Chat_[0-9a-fA-F]+$`)

// ListChatTables returns the chat tables of a message database, in the
// order sqlite_master delivers them.
func ListChatTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("table listing failed: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if strings.HasPrefix(name, ChatTablePrefix) {
			tables = append(tables, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return tables, nil
}

// ChatRow is one raw message row: (timestamp, type code, direction code,
// text).
type ChatRow struct {
	CreateTime int64
	Type       int
	Des        int
	Message    string
}

// QueryChatRows reads all rows of one chat table in stored order. The
// table name is interpolated, so it is checked against the Chat_<hex hash>
// convention first.
func QueryChatRows(db *sql.DB, table string) ([]ChatRow, error) {
	if !chatTablePattern.MatchString(table) {
		return nil, &FormatError{Msg: fmt.Sprintf("unexpected chat table name %q", table)}
	}

	rows, err := db.Query(fmt.Sprintf("SELECT CreateTime, Type, Des, Message FROM %q", table))
	if err != nil {
		return nil, fmt.Errorf("chat query failed: %w", err)
	}
	defer rows.Close()

	var chats []ChatRow
	for rows.Next() {
		var c ChatRow
		var msg sql.NullString
		if err := rows.Scan(&c.CreateTime, &c.Type, &c.Des, &msg); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		c.Message = msg.String
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return chats, nil
}
