package internal

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// WeChatDomain is the manifest domain the WeChat app sandbox lives under.
const WeChatDomain = "AppDomain-com.tencent.xin"

const (
	mmDBName       = "MM.sqlite"
	contactsDBName = "WCDB_Contact.sqlite"
	snapshotDir    = "Snapshot"
)

var messageDBPattern = regexp.MustCompile(`^message_(\d+)\.sqlite$`)

// ChatDatabases is one WeChat account's set of embedded databases inside a
// backup: the main message store, the contact store, and the numbered
// overflow message stores. All values are storage keys relative to the
// backup directory.
type ChatDatabases struct {
	DocumentsDir string // sandbox directory the databases share
	MMDB         string
	ContactsDB   string
	MessageDBs   []string // ordered by their numeric suffix
}

// FindBackups returns the manifest paths of the per-device backup
// directories directly under root, in lexical order. The reserved
// Snapshot directory is skipped, as are directories without a manifest.
func FindBackups(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: root}
		}
		return nil, fmt.Errorf("failed to list backup root: %w", err)
	}

	var manifests []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == snapshotDir {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		for _, name := range []string{"Manifest.db", "Manifest.mbdb"} {
			manifest := filepath.Join(dir, name)
			if _, err := os.Stat(manifest); err == nil {
				manifests = append(manifests, manifest)
				break
			}
		}
	}
	return manifests, nil
}

// LocateChatDatabases selects the WeChat database files out of a decoded
// manifest and groups them by their sandbox directory. Groups missing the
// message or contact store are dropped with a warning.
func LocateChatDatabases(records map[string]*FileRecord, diag *Diag) []ChatDatabases {
	type group struct {
		mm       string
		contacts string
		chats    map[int]string
	}
	groups := make(map[string]*group)

	for _, rec := range records {
		if rec.Domain != WeChatDomain {
			continue
		}
		dir := path.Dir(rec.RelativePath)
		name := path.Base(rec.RelativePath)

		g := groups[dir]
		if g == nil {
			g = &group{chats: make(map[int]string)}
			groups[dir] = g
		}

		switch {
		case name == mmDBName:
			g.mm = rec.StorageKey
		case name == contactsDBName:
			g.contacts = rec.StorageKey
		default:
			if m := messageDBPattern.FindStringSubmatch(name); m != nil {
				n, _ := strconv.Atoi(m[1])
				g.chats[n] = rec.StorageKey
			}
		}
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var sets []ChatDatabases
	for _, dir := range dirs {
		g := groups[dir]
		if g.mm == "" || g.contacts == "" {
			diag.Warnf("skipping %s: incomplete database set", dir)
			continue
		}
		set := ChatDatabases{DocumentsDir: dir, MMDB: g.mm, ContactsDB: g.contacts}
		nums := make([]int, 0, len(g.chats))
		for n := range g.chats {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		for _, n := range nums {
			set.MessageDBs = append(set.MessageDBs, g.chats[n])
		}
		sets = append(sets, set)
	}
	return sets
}

// BackupResult is everything extracted for one WeChat account: the ordinal
// assigned in discovery order, the conversations in discovery order, and
// the contact table and group rosters behind them.
type BackupResult struct {
	Ordinal       int
	BackupDir     string
	Contacts      []*Contact
	Groups        []GroupRoster
	Conversations []*Conversation
}

// Extractor drives the per-backup pipeline: manifest decode, database
// discovery, contact load, message reconstruction.
type Extractor struct {
	diag *Diag
}

// NewExtractor creates an Extractor reporting to diag.
func NewExtractor(diag *Diag) *Extractor {
	return &Extractor{diag: diag}
}

// Run processes every backup under root. A fatal error aborts only the
// backup that raised it; remaining backups still run. Ordinals are
// assigned across backups in discovery order. A root with no backups in
// it yields empty results; only a missing root is an error.
func (e *Extractor) Run(root string) ([]*BackupResult, error) {
	manifests, err := FindBackups(root)
	if err != nil {
		return nil, err
	}

	var results []*BackupResult
	ordinal := 0
	for _, manifest := range manifests {
		backupResults, err := e.ExtractBackup(manifest, ordinal)
		if err != nil {
			e.diag.Errorf("backup %s failed: %v", filepath.Dir(manifest), err)
			continue
		}
		results = append(results, backupResults...)
		ordinal += len(backupResults)
	}
	return results, nil
}

// ExtractBackup processes one backup directory, producing one result per
// WeChat account found in its manifest. Any fatal error discards the whole
// backup.
func (e *Extractor) ExtractBackup(manifestPath string, firstOrdinal int) ([]*BackupResult, error) {
	records, err := LoadManifest(manifestPath, e.diag)
	if err != nil {
		return nil, err
	}

	backupDir := filepath.Dir(manifestPath)
	sets := LocateChatDatabases(records, e.diag)
	e.diag.Infof("found %d database set(s) in %s", len(sets), backupDir)

	var results []*BackupResult
	for i, set := range sets {
		result, err := e.extractAccount(backupDir, set, firstOrdinal+i)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Extractor) extractAccount(backupDir string, set ChatDatabases, ordinal int) (*BackupResult, error) {
	contactsDB, err := OpenDatabase(e.storagePath(backupDir, set.ContactsDB))
	if err != nil {
		return nil, fmt.Errorf("contact database: %w", err)
	}
	defer func() { _ = contactsDB.Close() }()

	contacts, err := LoadContacts(contactsDB, e.diag)
	if err != nil {
		return nil, fmt.Errorf("contact load: %w", err)
	}
	e.diag.Infof("loaded %d contact(s) for %s", len(contacts.Contacts()), set.DocumentsDir)

	result := &BackupResult{
		Ordinal:   ordinal,
		BackupDir: backupDir,
		Contacts:  contacts.Contacts(),
		Groups:    contacts.Groups(),
	}

	recon := NewReconstructor(contacts, e.diag)
	for _, key := range append([]string{set.MMDB}, set.MessageDBs...) {
		convs, err := e.extractChats(backupDir, key, recon)
		if err != nil {
			return nil, err
		}
		result.Conversations = append(result.Conversations, convs...)
	}
	return result, nil
}

func (e *Extractor) extractChats(backupDir, storageKey string, recon *Reconstructor) ([]*Conversation, error) {
	db, err := OpenDatabase(e.storagePath(backupDir, storageKey))
	if err != nil {
		return nil, fmt.Errorf("message database %s: %w", storageKey, err)
	}
	defer func() { _ = db.Close() }()

	tables, err := ListChatTables(db)
	if err != nil {
		return nil, err
	}

	var conversations []*Conversation
	for _, table := range tables {
		rows, err := QueryChatRows(db, table)
		if err != nil {
			return nil, err
		}
		conv, err := recon.BuildConversation(table[len(ChatTablePrefix):], rows)
		if err != nil {
			// Fatal for this table only: the rest of the database is
			// still recoverable.
			e.diag.Errorf("skipping chat table %s: %v", table, err)
			continue
		}
		e.diag.Debugf("reconstructed %s (%d messages)", conv.Filename, len(conv.Messages))
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// storagePath resolves a manifest storage key against the backup
// directory. Relational-manifest keys contain a "/" separator; binary keys
// are flat.
func (e *Extractor) storagePath(backupDir, storageKey string) string {
	return filepath.Join(backupDir, filepath.FromSlash(storageKey))
}
