package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/stormlang/internal/multilang"
	"github.com/danmuck/stormlang/internal/protocol/message"
)

// splitBolt emits one tuple per lower-cased word of the first tuple value.
type splitBolt struct {
	emitted int
}

func (b *splitBolt) Prepare(hs message.Handshake, out *multilang.Collector) error {
	out.Logger().Info().
		Int("task", hs.Context.TaskID).
		Str("component", hs.Context.ComponentID).
		Msg("split bolt prepared")
	return nil
}

func (b *splitBolt) Process(t message.Tuple, out *multilang.Collector) error {
	if len(t.Values) == 0 {
		return fmt.Errorf("tuple %s has no values", t.ID)
	}
	sentence, ok := t.Values[0].(string)
	if !ok {
		return fmt.Errorf("tuple %s value is %T, want string", t.ID, t.Values[0])
	}
	for _, word := range splitWords(sentence) {
		if _, err := out.Emit([]any{word}, multilang.EmitOptions{SkipTaskIDs: true}); err != nil {
			return err
		}
		b.emitted++
	}
	return nil
}

func splitWords(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !(r == '\'' || r == '-' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f == "" {
			continue
		}
		words = append(words, strings.ToLower(f))
	}
	return words
}
