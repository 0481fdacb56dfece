package internal

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// unsafeChars are stripped from output filenames.
var unsafeChars = regexp.MustCompile(`[<>;:"/|?*\\]+`)

// SanitizeFilename strips filesystem-unsafe characters and surrounding
// whitespace from a display name. Collision detection runs on this form,
// since two names differing only in stripped characters land on the same
// output file.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(name, ""))
}

// Contact is one decoded entry of the contact database. AccountID is the
// durable identifier; everything else is display metadata.
type Contact struct {
	AccountID   string
	Alias       string
	Nickname    string
	DisplayName string
	Gender      string
	Country     string
	State       string
	City        string
	Signature   string
}

// PreferredName returns the name a conversation with this contact is
// presented under: display name, then nickname, then alias, then the raw
// account id. First non-empty wins.
func (c *Contact) PreferredName() string {
	for _, name := range []string{c.DisplayName, c.Nickname, c.Alias, c.AccountID} {
		if name != "" {
			return name
		}
	}
	return ""
}

// SecondaryName returns the identifier used to disambiguate colliding
// preferred names: alias, else the raw account id.
func (c *Contact) SecondaryName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.AccountID
}

// GroupRoster is a chatroom's resolved membership, keyed by the owning
// contact's preferred name. Member order is the stored order; duplicates
// are possible.
type GroupRoster struct {
	Name    string
	Members []*Contact
}

// ContactSet holds one backup's contacts indexed by identity hash, the
// display-name collision set, and the resolved group rosters. It is built
// once per backup and read-only afterwards.
type ContactSet struct {
	byHash     map[string]*Contact
	ordered    []*Contact
	duplicates map[string]bool // identity hashes whose preferred name collides
	groups     []GroupRoster
	diag       *Diag
}

// LoadContacts decodes every row of the contact database's Friend table.
// Group rosters are resolved after the full table is loaded, so member
// order within a roster never depends on row order.
func LoadContacts(db *sql.DB, diag *Diag) (*ContactSet, error) {
	rows, err := QueryFriendRows(db)
	if err != nil {
		return nil, err
	}

	cs := &ContactSet{
		byHash:     make(map[string]*Contact, len(rows)),
		duplicates: make(map[string]bool),
		diag:       diag,
	}

	type room struct {
		name    string
		members []string
	}
	var rooms []room
	hashesByName := make(map[string]map[string]bool)

	for _, row := range rows {
		hash := IdentityHash(row.UserName)

		remark, err := ParseRemark(row.Remark, diag)
		if err != nil {
			return nil, fmt.Errorf("contact %s remark: %w", row.UserName, err)
		}
		profile, err := ParseProfile(row.Profile, diag)
		if err != nil {
			return nil, fmt.Errorf("contact %s profile: %w", row.UserName, err)
		}

		nickname := remark.Nickname
		if nickname == "" {
			nickname = remark.ChatRoomName
		}

		contact := &Contact{
			AccountID:   row.UserName,
			Alias:       remark.Alias,
			Nickname:    nickname,
			DisplayName: remark.DisplayName,
			Gender:      profile.Gender,
			Country:     profile.Country,
			State:       profile.State,
			City:        profile.City,
			Signature:   profile.Signature,
		}
		cs.byHash[hash] = contact
		cs.ordered = append(cs.ordered, contact)

		name := contact.PreferredName()
		filename := SanitizeFilename(name)
		if hashesByName[filename] == nil {
			hashesByName[filename] = make(map[string]bool)
		}
		hashesByName[filename][hash] = true

		if len(row.ChatRoom) > 0 {
			members, err := ParseChatRoom(row.ChatRoom)
			if err != nil {
				return nil, fmt.Errorf("contact %s chatroom: %w", row.UserName, err)
			}
			rooms = append(rooms, room{name: name, members: members})
		}
	}

	for _, hashes := range hashesByName {
		if len(hashes) > 1 {
			for h := range hashes {
				cs.duplicates[h] = true
			}
		}
	}

	for _, rm := range rooms {
		roster := GroupRoster{Name: rm.name, Members: make([]*Contact, 0, len(rm.members))}
		for _, id := range rm.members {
			roster.Members = append(roster.Members, cs.Resolve(id))
		}
		cs.groups = append(cs.groups, roster)
	}

	return cs, nil
}

// Lookup finds a contact by raw account identifier.
func (cs *ContactSet) Lookup(accountID string) (*Contact, bool) {
	return cs.LookupHash(IdentityHash(accountID))
}

// LookupHash finds a contact by identity hash.
func (cs *ContactSet) LookupHash(hash string) (*Contact, bool) {
	c, ok := cs.byHash[hash]
	return c, ok
}

// Resolve finds a contact by account identifier, falling back to a
// placeholder carrying only the raw identifier when the lookup misses.
func (cs *ContactSet) Resolve(accountID string) *Contact {
	if accountID == "" {
		return &Contact{}
	}
	if c, ok := cs.Lookup(accountID); ok {
		return c
	}
	cs.diag.Anomalyf("no contact record for account %s", accountID)
	return &Contact{AccountID: accountID}
}

// ConversationName returns the display name for the conversation owned by
// the contact with the given identity hash. Names that more than one
// contact resolves to are disambiguated with a parenthesized secondary
// identifier; a hash with no contact at all labels the conversation
// "unsaved-group-<hash>".
func (cs *ContactSet) ConversationName(hash string) string {
	c, ok := cs.byHash[hash]
	if !ok {
		return "unsaved-group-" + hash
	}
	name := c.PreferredName()
	if cs.duplicates[hash] {
		name += "(" + c.SecondaryName() + ")"
	}
	return name
}

// Contacts returns all contacts in table row order.
func (cs *ContactSet) Contacts() []*Contact {
	return cs.ordered
}

// Groups returns all resolved group rosters in table row order.
func (cs *ContactSet) Groups() []GroupRoster {
	return cs.groups
}
