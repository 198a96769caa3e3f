package elevenlabs

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
)

// ISOLayout renders UTC instants with millisecond precision and a Z suffix
const ISOLayout = "2006-01-02T15:04:05.000Z"

// maxUnixSeconds bounds representable instants to ±100,000,000 days around the epoch
const maxUnixSeconds = 8.64e12

var (
	agentIDKeys      = []string{"agent_id", "agentId", "id"}
	agentNameKeys    = []string{"name", "display_name", "displayName"}
	agentVoiceKeys   = []string{"voice_id", "voiceId"}
	conversationKeys = []string{"conversation_id", "conversationId", "id"}
	convAgentKeys    = []string{"agent_id", "agentId", "agent"}
	startUnixKeys    = []string{"start_time_unix_secs", "startTimeUnixSecs"}
	startTextKeys    = []string{"started_at", "startedAt", "created_at"}
	durationKeys     = []string{"call_duration_secs", "callDurationSecs", "duration_secs"}
	endTextKeys      = []string{"ended_at", "endedAt"}
)

// Agent is the canonical shape of a remote agent
type Agent struct {
	AgentID string
	Name    *string
	VoiceID *string
	Raw     Record
}

// Valid reports whether the agent carries its identity
func (a Agent) Valid() bool {
	return a.AgentID != ""
}

// Conversation is the canonical shape of a remote conversation.
// StartedAt and EndedAt are ISO-8601 strings or whatever the provider sent verbatim.
type Conversation struct {
	ConversationID string
	AgentID        string
	StartedAt      *string
	EndedAt        *string
	Raw            Record
}

func (c Conversation) Valid() bool {
	return c.ConversationID != "" && c.AgentID != ""
}

// Metadata encodes the raw record with sorted keys
func (c Conversation) Metadata() ([]byte, error) {
	if c.Raw == nil {
		return []byte("{}"), nil
	}
	return sonic.ConfigStd.Marshal(c.Raw)
}

// NormalizeAgent maps one raw agent into canonical form. It never fails;
// a missing id leaves AgentID empty.
func NormalizeAgent(raw Record) Agent {
	id, _ := firstString(raw, agentIDKeys...)
	return Agent{
		AgentID: id,
		Name:    optionalString(raw, agentNameKeys...),
		VoiceID: optionalString(raw, agentVoiceKeys...),
		Raw:     raw,
	}
}

// NormalizeConversation maps one raw conversation into canonical form.
// A numeric start is rendered as ISO-8601; with a numeric duration the end is derived from it,
// otherwise the end falls back to ended_at/endedAt.
func NormalizeConversation(raw Record) Conversation {
	convID, _ := firstString(raw, conversationKeys...)
	agentID, _ := firstString(raw, convAgentKeys...)

	conv := Conversation{
		ConversationID: convID,
		AgentID:        agentID,
		Raw:            raw,
	}

	start, numericStart := firstNumber(raw, startUnixKeys...)
	if numericStart && !inUnixRange(start) {
		numericStart = false
	}
	if numericStart {
		startedAt := FormatUnixSeconds(start)
		conv.StartedAt = &startedAt
		if duration, ok := firstNumber(raw, durationKeys...); ok && inUnixRange(start+duration) {
			endedAt := FormatUnixSeconds(start + duration)
			conv.EndedAt = &endedAt
			return conv
		}
	} else {
		conv.StartedAt = optionalString(raw, startTextKeys...)
	}

	conv.EndedAt = optionalString(raw, endTextKeys...)
	return conv
}

// NormalizeAgents normalizes a batch, drops records without identity and collapses
// duplicate ids to their last occurrence. It returns the survivors and the number dropped.
func NormalizeAgents(raws []Record) ([]Agent, int) {
	out := make([]Agent, 0, len(raws))
	index := make(map[string]int, len(raws))
	dropped := 0
	for _, raw := range raws {
		agent := NormalizeAgent(raw)
		if !agent.Valid() {
			dropped++
			continue
		}
		if i, ok := index[agent.AgentID]; ok {
			out[i] = agent
			continue
		}
		index[agent.AgentID] = len(out)
		out = append(out, agent)
	}
	return out, dropped
}

// NormalizeConversations is NormalizeAgents for conversations; identity needs both ids.
func NormalizeConversations(raws []Record) ([]Conversation, int) {
	out := make([]Conversation, 0, len(raws))
	index := make(map[string]int, len(raws))
	dropped := 0
	for _, raw := range raws {
		conv := NormalizeConversation(raw)
		if !conv.Valid() {
			dropped++
			continue
		}
		if i, ok := index[conv.ConversationID]; ok {
			out[i] = conv
			continue
		}
		index[conv.ConversationID] = len(out)
		out = append(out, conv)
	}
	return out, dropped
}

// FormatUnixSeconds renders epoch seconds as UTC ISO-8601, truncated to the millisecond.
// Callers keep secs within ±8.64e12.
func FormatUnixSeconds(secs float64) string {
	ms := int64(math.Trunc(secs * 1000))
	return time.UnixMilli(ms).UTC().Format(ISOLayout)
}

func inUnixRange(secs float64) bool {
	return !math.IsNaN(secs) && math.Abs(secs) <= maxUnixSeconds
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses a canonical timestamp string for storage.
// Nil, empty and unparseable values yield nil.
func ParseTimestamp(value *string) *time.Time {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// firstString returns the first candidate that is present and truthy, rendered as a string.
// Absent keys, null, empty strings, false and zero are skipped.
func firstString(raw Record, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
			return t, true
		case bool:
			if !t {
				continue
			}
		case map[string]any, []any:
			continue
		}
		if n, isNum := toNumber(v); isNum && n == 0 {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil || s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

func optionalString(raw Record, keys ...string) *string {
	s, ok := firstString(raw, keys...)
	if !ok {
		return nil
	}
	return &s
}

// firstNumber returns the first candidate holding a JSON number
func firstNumber(raw Record, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if n, isNum := toNumber(v); isNum {
			return n, true
		}
	}
	return 0, false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	return 0, false
}
