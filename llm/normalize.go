package llm

// ContinuePrompt is the synthetic user turn prepended to assistant-first conversations.
const ContinuePrompt = "please continue"

// Normalize returns a provider-safe copy of conv in which roles strictly alternate and the
// first turn is from the user.
//
// Adjacent messages with the same role are merged into one, their contents joined by a blank
// line. If the merged sequence starts with an assistant turn, a ContinuePrompt user turn is
// prepended. A single user message has nothing to merge and is returned unchanged; a lone
// assistant message still gets the synthetic user turn. The input is not modified.
func Normalize(conv Conversation) Conversation {
	if len(conv) == 0 || (len(conv) == 1 && conv[0].Role != RoleAssistant) {
		return conv.Clone()
	}

	out := make(Conversation, 0, len(conv))
	var lastRole Role
	for _, m := range conv {
		if len(out) > 0 && m.Role == lastRole {
			last := &out[len(out)-1]
			last.Content += "\n\n" + m.Content
			continue
		}
		out = append(out, Message{Role: m.Role, Content: m.Content})
		lastRole = m.Role
	}

	if out[0].Role == RoleAssistant {
		out = append(Conversation{User(ContinuePrompt)}, out...)
	}
	return out
}
