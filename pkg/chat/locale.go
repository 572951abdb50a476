package chat

import "github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/gemini"

// errorPrefix marks error-shaped transcript messages.
const errorPrefix = "⚠️ "

func describeImagePrompt(lang gemini.Language) string {
	if lang == gemini.LanguagePortuguese {
		return "Descreva esta imagem."
	}
	return "Describe this image."
}

func pendingVideoText(lang gemini.Language) string {
	if lang == gemini.LanguagePortuguese {
		return "Gerando seu vídeo, isso pode levar alguns minutos..."
	}
	return "Generating your video, this can take a few minutes..."
}

func imageCaption(lang gemini.Language) string {
	if lang == gemini.LanguagePortuguese {
		return "Aqui está sua imagem:"
	}
	return "Here is your image:"
}

func videoCaption(lang gemini.Language) string {
	if lang == gemini.LanguagePortuguese {
		return "Aqui está seu vídeo:"
	}
	return "Here is your video:"
}
