package internal

import (
	"fmt"
	"strings"
	"time"
)

// Direction is a message's transfer direction, as stored in the Des
// column.
type Direction int

const (
	DirectionOutbound Direction = 0
	DirectionInbound  Direction = 1
)

func (d Direction) String() string {
	if d == DirectionInbound {
		return "inbound"
	}
	return "outbound"
}

// ParseDirection maps a Des column value onto the two-value direction
// enumeration. Anything else is an UnknownDirectionError.
func ParseDirection(code int) (Direction, error) {
	switch code {
	case 0:
		return DirectionOutbound, nil
	case 1:
		return DirectionInbound, nil
	default:
		return 0, &UnknownDirectionError{Code: code}
	}
}

// messageCategories maps Type column codes onto human-readable categories.
var messageCategories = map[int]string{
	1:     "text",
	3:     "image",
	34:    "voice",
	35:    "email",
	42:    "contact-card",
	43:    "video",
	44:    "video",
	47:    "sticker",
	48:    "location",
	49:    "link",
	50:    "call",
	62:    "video",
	64:    "voice-call",
	66:    "work-contact-card",
	10000: "system",
	10002: "recalled",
}

// Code 50 messages carry the call variant in the message body.
var callCategories = map[string]string{
	"voip_content_voice": "voice-call",
	"voip_content_video": "video-call",
}

// MessageCategory classifies a type code. Codes outside the enumeration
// (including code 50 with an unrecognized body) degrade to an unknown
// category carrying the raw code.
func MessageCategory(code int, content string) string {
	if code == 50 {
		if cat, ok := callCategories[content]; ok {
			return cat
		}
		return fmt.Sprintf("unknown(%d)", code)
	}
	if cat, ok := messageCategories[code]; ok {
		return cat
	}
	return fmt.Sprintf("unknown(%d)", code)
}

// ChatMessage is one reconstructed message.
type ChatMessage struct {
	Time      string // local calendar time
	TypeCode  int
	Category  string
	Direction Direction
	Sender    *Contact
	Text      string
}

// Conversation is one chat table's ordered message sequence.
type Conversation struct {
	ChatKey  string // identity hash embedded in the table name
	Filename string // display name, collision-disambiguated
	Messages []ChatMessage
}

const timeLayout = "2006-01-02 15:04:05"

// senderDelimiter separates the embedded sender account id from the body
// in group chat messages.
const senderDelimiter = ":\n"

// Reconstructor turns raw chat rows into resolved messages using one
// backup's contact set.
type Reconstructor struct {
	contacts *ContactSet
	diag     *Diag
}

// NewReconstructor creates a Reconstructor over a backup's contacts.
func NewReconstructor(contacts *ContactSet, diag *Diag) *Reconstructor {
	return &Reconstructor{contacts: contacts, diag: diag}
}

// ResolveSender determines who sent a message. Group chat rows prefix the
// body with the sender's account id and ":\n"; if that prefix matches a
// known contact, the match is the sender and the body follows the
// delimiter. A prefix matching no contact, or no delimiter at all, means
// the conversation owner sent it and the text stands unmodified.
func (r *Reconstructor) ResolveSender(raw string, owner *Contact) (*Contact, string) {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, senderDelimiter); idx >= 0 {
		if sender, ok := r.contacts.Lookup(text[:idx]); ok {
			return sender, text[idx+len(senderDelimiter):]
		}
	}
	return owner, text
}

// BuildConversation reconstructs one chat table's rows into an ordered
// conversation. Row order is preserved as delivered (the source stores
// rows chronologically). An out-of-range direction code fails the whole
// table.
func (r *Reconstructor) BuildConversation(chatKey string, rows []ChatRow) (*Conversation, error) {
	owner, ok := r.contacts.LookupHash(chatKey)
	if !ok {
		r.diag.Anomalyf("no contact record for chat table owner %s", chatKey)
		owner = &Contact{DisplayName: "unsaved-group-" + chatKey}
	}

	conv := &Conversation{
		ChatKey:  chatKey,
		Filename: r.contacts.ConversationName(chatKey),
		Messages: make([]ChatMessage, 0, len(rows)),
	}

	for i, row := range rows {
		direction, err := ParseDirection(row.Des)
		if err != nil {
			return nil, fmt.Errorf("chat %s row %d: %w", chatKey, i, err)
		}

		sender, text := r.ResolveSender(row.Message, owner)
		conv.Messages = append(conv.Messages, ChatMessage{
			Time:      time.Unix(row.CreateTime, 0).Format(timeLayout),
			TypeCode:  row.Type,
			Category:  MessageCategory(row.Type, row.Message),
			Direction: direction,
			Sender:    sender,
			Text:      text,
		})
	}

	return conv, nil
}
