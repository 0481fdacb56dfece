package internal

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/wxbackup/wechat-export/testutil"
)

func loadContactFixture(t *testing.T, contacts []testutil.ContactFixture) *ContactSet {
	t.Helper()
	path := filepath.Join(t.TempDir(), "WCDB_Contact.sqlite")
	testutil.CreateContactDB(t, path, contacts)

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cs, err := LoadContacts(db, quietDiag())
	if err != nil {
		t.Fatalf("LoadContacts() error = %v", err)
	}
	return cs
}

func TestLoadContacts_Basic(t *testing.T) {
	var profile []byte
	profile = append(profile, testutil.GenderField(1)...)
	profile = append(profile, testutil.TLVField(0x12, "CN")...)

	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "wxid_alice", Remark: testutil.RemarkBlob("Alice", "alice2000", "Sis"), Profile: profile},
		{UserName: "wxid_bob", Remark: testutil.RemarkBlob("Bob", "", "")},
	})

	if len(cs.Contacts()) != 2 {
		t.Fatalf("Contacts() = %d, want 2", len(cs.Contacts()))
	}

	alice, ok := cs.Lookup("wxid_alice")
	if !ok {
		t.Fatal("Lookup(wxid_alice) missed")
	}
	if alice.Nickname != "Alice" || alice.Alias != "alice2000" || alice.DisplayName != "Sis" {
		t.Errorf("alice = %+v", alice)
	}
	if alice.Gender != "male" || alice.Country != "CN" {
		t.Errorf("alice profile = %+v", alice)
	}

	// Lookup goes through the identity hash.
	if _, ok := cs.LookupHash(IdentityHash("wxid_bob")); !ok {
		t.Error("LookupHash(md5(wxid_bob)) missed")
	}
}

func TestContact_PreferredName(t *testing.T) {
	tests := []struct {
		contact Contact
		want    string
	}{
		{Contact{AccountID: "u1", Alias: "a", Nickname: "n", DisplayName: "d"}, "d"},
		{Contact{AccountID: "u1", Alias: "a", Nickname: "n"}, "n"},
		{Contact{AccountID: "u1", Alias: "a"}, "a"},
		{Contact{AccountID: "u1"}, "u1"},
	}
	for _, tt := range tests {
		if got := tt.contact.PreferredName(); got != tt.want {
			t.Errorf("PreferredName(%+v) = %q, want %q", tt.contact, got, tt.want)
		}
	}
}

func TestLoadContacts_ChatRoomNameAsNicknameFallback(t *testing.T) {
	blob := testutil.TLVField(0x32, "Family Group")

	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "room@chatroom", Remark: blob},
	})

	c, ok := cs.Lookup("room@chatroom")
	if !ok {
		t.Fatal("Lookup(room@chatroom) missed")
	}
	if c.Nickname != "Family Group" {
		t.Errorf("Nickname = %q, want chatroom name fallback", c.Nickname)
	}
}

func TestLoadContacts_DisplayNameCollision(t *testing.T) {
	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "wxid_alice", Remark: testutil.RemarkBlob("Alice", "alias_a", "")},
		{UserName: "wxid_alice2", Remark: testutil.RemarkBlob("Alice", "alias_b", "")},
		{UserName: "wxid_bob", Remark: testutil.RemarkBlob("Bob", "", "")},
	})

	nameA := cs.ConversationName(IdentityHash("wxid_alice"))
	nameB := cs.ConversationName(IdentityHash("wxid_alice2"))

	if nameA == nameB {
		t.Fatalf("colliding names not disambiguated: both %q", nameA)
	}
	if !strings.Contains(nameA, "(alias_a)") {
		t.Errorf("nameA = %q, want secondary identifier in parentheses", nameA)
	}
	if !strings.Contains(nameB, "(alias_b)") {
		t.Errorf("nameB = %q, want secondary identifier in parentheses", nameB)
	}

	// A non-colliding name stays plain.
	if got := cs.ConversationName(IdentityHash("wxid_bob")); got != "Bob" {
		t.Errorf("ConversationName(bob) = %q, want Bob", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "Alice"},
		{"a/b\\c", "abc"},
		{`<>;:"/|?*`, ""},
		{"  Family Group  ", "Family Group"},
		{"Q&A: round 2", "Q&A round 2"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadContacts_CollisionAfterSanitizing(t *testing.T) {
	// "A/B" sanitizes to "AB", so these two land on the same output file
	// unless disambiguated.
	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "wxid_alice", Remark: testutil.RemarkBlob("A/B", "alias_a", "")},
		{UserName: "wxid_alice2", Remark: testutil.RemarkBlob("AB", "alias_b", "")},
	})

	nameA := cs.ConversationName(IdentityHash("wxid_alice"))
	nameB := cs.ConversationName(IdentityHash("wxid_alice2"))

	if SanitizeFilename(nameA) == SanitizeFilename(nameB) {
		t.Fatalf("sanitized names still collide: %q vs %q", nameA, nameB)
	}
	if !strings.Contains(nameA, "(alias_a)") || !strings.Contains(nameB, "(alias_b)") {
		t.Errorf("names = %q / %q, want secondary identifiers", nameA, nameB)
	}
}

func TestContactSet_Resolve_Placeholder(t *testing.T) {
	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "wxid_alice", Remark: testutil.RemarkBlob("Alice", "", "")},
	})

	ghost := cs.Resolve("wxid_ghost")
	if ghost.AccountID != "wxid_ghost" {
		t.Errorf("placeholder AccountID = %q, want wxid_ghost", ghost.AccountID)
	}
	if ghost.Nickname != "" || ghost.Alias != "" || ghost.DisplayName != "" {
		t.Errorf("placeholder carries extra fields: %+v", ghost)
	}
}

func TestConversationName_Unsaved(t *testing.T) {
	cs := loadContactFixture(t, nil)

	hash := IdentityHash("room@chatroom")
	want := "unsaved-group-" + hash
	if got := cs.ConversationName(hash); got != want {
		t.Errorf("ConversationName() = %q, want %q", got, want)
	}
}

func TestLoadContacts_Groups(t *testing.T) {
	cs := loadContactFixture(t, []testutil.ContactFixture{
		{UserName: "wxid_alice", Remark: testutil.RemarkBlob("Alice", "", "")},
		{UserName: "wxid_bob", Remark: testutil.RemarkBlob("Bob", "", "")},
		{
			UserName: "room@chatroom",
			Remark:   testutil.TLVField(0x32, "Family Group"),
			ChatRoom: testutil.ChatRoomBlob("wxid_alice;wxid_bob;wxid_ghost"),
		},
	})

	groups := cs.Groups()
	if len(groups) != 1 {
		t.Fatalf("Groups() = %d, want 1", len(groups))
	}
	g := groups[0]
	if g.Name != "Family Group" {
		t.Errorf("group name = %q, want Family Group", g.Name)
	}
	if len(g.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(g.Members))
	}
	if g.Members[0].Nickname != "Alice" {
		t.Errorf("member 0 = %+v, want resolved Alice", g.Members[0])
	}
	if g.Members[1].Nickname != "Bob" {
		t.Errorf("member 1 = %+v, want resolved Bob", g.Members[1])
	}
	// Unknown member yields a placeholder with only the raw id.
	if g.Members[2].AccountID != "wxid_ghost" || g.Members[2].Nickname != "" {
		t.Errorf("member 2 = %+v, want placeholder", g.Members[2])
	}
}
