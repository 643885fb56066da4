package usecases

import "github.com/gls-pallavi/Wellbot/internal/domain/entities"

// smallTalk holds canned replies for conversational intents that usually have
// no knowledge-base file of their own.
var smallTalk = map[string]map[string]string{
	"greeting": {
		entities.LangEnglish: "Hello! I'm Wellbot. Ask me anything about your health and wellness.",
		entities.LangHindi:   "नमस्ते! मैं वेलबॉट हूँ। अपने स्वास्थ्य के बारे में कुछ भी पूछें।",
	},
	"goodbye": {
		entities.LangEnglish: "Goodbye! Take care of yourself.",
		entities.LangHindi:   "अलविदा! अपना ख्याल रखें।",
	},
	"mood_great": {
		entities.LangEnglish: "Great to hear that! Keep it up.",
		entities.LangHindi:   "यह सुनकर अच्छा लगा! ऐसे ही बने रहें।",
	},
	"mood_unhappy": {
		entities.LangEnglish: "I'm sorry you're feeling this way. Talking to someone you trust can help.",
		entities.LangHindi:   "मुझे खेद है कि आप ऐसा महसूस कर रहे हैं। किसी भरोसेमंद व्यक्ति से बात करना मदद कर सकता है।",
	},
}

// SmallTalkEntry returns the canned reply for a conversational intent.
func SmallTalkEntry(intent string) (entities.Entry, bool) {
	text, ok := smallTalk[intent]
	if !ok {
		return entities.Entry{}, false
	}
	e := entities.Entry{ID: intent, Text: make(map[string]string, len(text))}
	for k, v := range text {
		e.Text[k] = v
	}
	return e, true
}
