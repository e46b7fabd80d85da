package text

import "strings"

// SplitChunks splits text into word-bounded chunks of roughly size
// characters. Words are accumulated greedily; when adding the next word
// would push the buffer past size, the buffer is emitted and the word
// starts a new chunk. Words are never split, so a single word longer than
// size becomes its own chunk. Pure function of its input.
func SplitChunks(text string, size int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		size = 300
	}

	var chunks []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
