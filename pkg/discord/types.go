package discord

// Interaction types delivered by the webhook.
const (
	InteractionTypePing               = 1
	InteractionTypeApplicationCommand = 2
)

// Interaction response types.
const (
	ResponsePong                   = 1
	ResponseChannelMessage         = 4
	ResponseDeferredChannelMessage = 5
)

// FlagEphemeral marks a message as visible only to the invoking user.
const FlagEphemeral = 1 << 6

// Interaction is a decoded inbound interaction event. It is never mutated
// after decoding.
type Interaction struct {
	Type          int              `json:"type"`
	ID            string           `json:"id"`
	ApplicationID string           `json:"application_id"`
	Token         string           `json:"token"`
	GuildID       string           `json:"guild_id,omitempty"`
	Data          *InteractionData `json:"data,omitempty"`
	Member        *Member          `json:"member,omitempty"`
	User          *User            `json:"user,omitempty"`
}

type InteractionData struct {
	Name    string          `json:"name"`
	Options []CommandOption `json:"options,omitempty"`
}

// CommandOption carries a string or boolean value. Option names are not
// guaranteed unique; consumers take the first occurrence.
type CommandOption struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type Member struct {
	User *User `json:"user,omitempty"`
}

type User struct {
	ID string `json:"id"`
}

// UserID returns the invoking user, preferring the guild member identity
// over the direct-message one. Used for logging only.
func (i *Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}

	if i.User != nil {
		return i.User.ID
	}

	return ""
}

type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content         string           `json:"content,omitempty"`
	Flags           int              `json:"flags,omitempty"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

// AllowedMentions with an empty Parse list suppresses every mention the
// content would otherwise trigger.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}
