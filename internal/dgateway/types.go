package dgateway

import (
	"encoding/json"
	"strconv"
)

// опкоды шлюза (v10)
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opResume         = 6
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

// интенты
const (
	IntentGuilds                = 1 << 0
	IntentGuildMessages         = 1 << 9
	IntentGuildMessageReactions = 1 << 10
	IntentMessageContent        = 1 << 15
)

// PermManageMessages — бит права ManageMessages в маске Member.Permissions.
const PermManageMessages = 1 << 13

// рамка шлюза: op + данные + seq + имя события для dispatch
type payload struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	S  *int64          `json:"s,omitempty"`
	T  string          `json:"t,omitempty"`
}

type helloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

type readyData struct {
	SessionID        string `json:"session_id"`
	ResumeGatewayURL string `json:"resume_gateway_url"`
	User             User   `json:"user"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

type Member struct {
	User        *User  `json:"user,omitempty"`
	Permissions string `json:"permissions,omitempty"`
}

// HasPermission проверяет бит в строковой маске прав из interaction.member.
func (m *Member) HasPermission(bit int64) bool {
	if m == nil {
		return false
	}
	v, err := strconv.ParseInt(m.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return v&bit != 0
}

// типы interaction
const InteractionTypeApplicationCommand = 2

type Interaction struct {
	ID        string           `json:"id"`
	Type      int              `json:"type"`
	Token     string           `json:"token"`
	GuildID   string           `json:"guild_id"`
	ChannelID string           `json:"channel_id"`
	Member    *Member          `json:"member"`
	User      *User            `json:"user"`
	Data      *InteractionData `json:"data"`
}

// Sender — автор команды: в гильдии это member.user, в личке — user.
func (i *Interaction) Sender() *User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

type InteractionData struct {
	Name    string          `json:"name"`
	Options []CommandOption `json:"options"`
}

type CommandOption struct {
	Name  string          `json:"name"`
	Type  int             `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (d *InteractionData) option(name string) *CommandOption {
	for i := range d.Options {
		if d.Options[i].Name == name {
			return &d.Options[i]
		}
	}
	return nil
}

// StringOption — значение строковой опции (для user/role это snowflake).
// Нет опции — пустая строка.
func (d *InteractionData) StringOption(name string) string {
	if o := d.option(name); o != nil {
		var s string
		if json.Unmarshal(o.Value, &s) == nil {
			return s
		}
	}
	return ""
}

// IntOption — значение целочисленной опции, ok=false если её нет.
func (d *InteractionData) IntOption(name string) (int, bool) {
	if o := d.option(name); o != nil {
		var n int
		if json.Unmarshal(o.Value, &n) == nil {
			return n, true
		}
	}
	return 0, false
}

// ReactionEvent — MESSAGE_REACTION_ADD / MESSAGE_REACTION_REMOVE.
type ReactionEvent struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	GuildID   string `json:"guild_id"`
	Emoji     Emoji  `json:"emoji"`
}

type Emoji struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

type MessagePayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
	Nonce   string  `json:"nonce,omitempty"`
}

// MessageFlagEphemeral — ответ виден только автору команды.
const MessageFlagEphemeral = 1 << 6

// ResponseChannelMessage — ответить на interaction обычным сообщением.
const ResponseChannelMessage = 4

type InteractionResponse struct {
	Type int                      `json:"type"`
	Data *InteractionResponseData `json:"data,omitempty"`
}

type InteractionResponseData struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
	Flags   int     `json:"flags,omitempty"`
}

// типы опций слэш-команд
const (
	OptionString  = 3
	OptionInteger = 4
	OptionUser    = 6
	OptionRole    = 8
)

type ApplicationCommand struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Options     []CommandOptionDef `json:"options,omitempty"`
}

type CommandOptionDef struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}
