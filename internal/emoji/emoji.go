package emoji

import "sync/atomic"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"ai":       {"🤖", "[AI]"},
	"human":    {"🧑", "[HUMAN]"},
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"info":     {"ℹ️", "[INF]"},
	"success":  {"✅", "[OK]"},
	"text":     {"📝", "[TXT]"},
	"image":    {"🖼️", "[IMG]"},
	"loading":  {"⏳", "[...]"},
	"watch":    {"👀", "[WATCH]"},
	"file":     {"📄", "[FILE]"},
	"folder":   {"📁", "[DIR]"},
	"key":      {"🔑", "[KEY]"},
	"settings": {"⚙️", "[CFG]"},
	"help":     {"❓", "[?]"},
	"target":   {"🎯", "[>]"},
	"tab":      {"🔀", "[TAB]"},
	"door":     {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// Verdict returns the symbol for an AI (true) or human (false) verdict
func Verdict(aiGenerated bool) string {
	if aiGenerated {
		return GetEmoji("ai")
	}
	return GetEmoji("human")
}
