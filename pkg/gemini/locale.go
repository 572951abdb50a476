package gemini

// Language selects the language of system instructions and user-facing
// error messages. Unknown values fall back to English.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguagePortuguese Language = "pt-BR"
)

func (l Language) normalize() Language {
	if l == LanguagePortuguese {
		return LanguagePortuguese
	}
	return LanguageEnglish
}

// FallbackTitle is used whenever title generation fails or cleans to nothing.
func FallbackTitle(lang Language) string {
	if lang.normalize() == LanguagePortuguese {
		return "Novo Chat"
	}
	return "New Chat"
}

func chatSystemInstruction(lang Language) string {
	if lang.normalize() == LanguagePortuguese {
		return "Você é um assistente prestativo. Responda sempre em português do Brasil."
	}
	return "You are a helpful assistant. Always answer in English."
}

func titleSystemInstruction(lang Language) string {
	if lang.normalize() == LanguagePortuguese {
		return "Gere um título muito curto (no máximo 5 palavras) para uma conversa que começa com a mensagem do usuário. Responda apenas com o título, sem aspas nem prefixos."
	}
	return "Generate a very short title (5 words maximum) for a conversation that starts with the user's message. Reply with the title only, no quotes and no prefixes."
}

var contextNouns = map[Language]map[RequestContext]string{
	LanguageEnglish: {
		ContextChat:  "the chat reply",
		ContextImage: "image generation",
		ContextVideo: "video generation",
		ContextTitle: "title generation",
	},
	LanguagePortuguese: {
		ContextChat:  "a resposta do chat",
		ContextImage: "a geração de imagem",
		ContextVideo: "a geração de vídeo",
		ContextTitle: "a geração de título",
	},
}

var kindTemplates = map[Language]map[ErrorKind]string{
	LanguageEnglish: {
		KindBillingUnavailable: "Could not complete %s: this feature requires an API key with billing enabled.",
		KindInvalidCredential:  "Could not complete %s: the configured API key is not valid.",
		KindQuotaExceeded:      "Could not complete %s: usage quota exceeded, try again in a moment.",
		KindUnknown:            "Could not complete %s: an unexpected error occurred.",
	},
	LanguagePortuguese: {
		KindBillingUnavailable: "Não foi possível concluir %s: este recurso exige uma chave de API com faturamento ativado.",
		KindInvalidCredential:  "Não foi possível concluir %s: a chave de API configurada não é válida.",
		KindQuotaExceeded:      "Não foi possível concluir %s: cota de uso excedida, tente novamente em instantes.",
		KindUnknown:            "Não foi possível concluir %s: ocorreu um erro inesperado.",
	},
}
