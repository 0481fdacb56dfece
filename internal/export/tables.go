package export

import (
	"path/filepath"
	"strconv"

	"github.com/wxbackup/wechat-export/internal"
)

var (
	messageHeader = []string{"time", "type", "direction", "account_id", "alias", "nickname", "display_name", "text"}
	contactHeader = []string{"account_id", "alias", "nickname", "display_name", "gender", "country", "state", "city", "signature"}
)

func contactRow(c *internal.Contact) []string {
	return []string{c.AccountID, c.Alias, c.Nickname, c.DisplayName, c.Gender, c.Country, c.State, c.City, c.Signature}
}

// ConversationTable flattens one conversation into a message log table
// under the backup's ordinal directory.
func ConversationTable(result *internal.BackupResult, conv *internal.Conversation) *Table {
	t := &Table{
		Name:   filepath.Join(strconv.Itoa(result.Ordinal), internal.SanitizeFilename(conv.Filename)),
		Header: messageHeader,
		Rows:   make([][]string, 0, len(conv.Messages)),
	}
	for _, msg := range conv.Messages {
		t.Rows = append(t.Rows, []string{
			msg.Time,
			msg.Category,
			msg.Direction.String(),
			msg.Sender.AccountID,
			msg.Sender.Alias,
			msg.Sender.Nickname,
			msg.Sender.DisplayName,
			msg.Text,
		})
	}
	return t
}

// ContactsTable flattens a backup's contact list.
func ContactsTable(result *internal.BackupResult) *Table {
	t := &Table{
		Name:   filepath.Join(strconv.Itoa(result.Ordinal), "Contacts", "contacts"),
		Header: contactHeader,
		Rows:   make([][]string, 0, len(result.Contacts)),
	}
	for _, c := range result.Contacts {
		t.Rows = append(t.Rows, contactRow(c))
	}
	return t
}

// GroupTable flattens one group roster.
func GroupTable(result *internal.BackupResult, g internal.GroupRoster) *Table {
	t := &Table{
		Name:   filepath.Join(strconv.Itoa(result.Ordinal), "Groups", internal.SanitizeFilename(g.Name)),
		Header: contactHeader,
		Rows:   make([][]string, 0, len(g.Members)),
	}
	for _, c := range g.Members {
		t.Rows = append(t.Rows, contactRow(c))
	}
	return t
}

// Tables flattens everything extracted for one backup: every conversation,
// the contact list, and every group roster, in that order.
func Tables(result *internal.BackupResult) []*Table {
	tables := make([]*Table, 0, len(result.Conversations)+len(result.Groups)+1)
	for _, conv := range result.Conversations {
		tables = append(tables, ConversationTable(result, conv))
	}
	tables = append(tables, ContactsTable(result))
	for _, g := range result.Groups {
		tables = append(tables, GroupTable(result, g))
	}
	return tables
}
