package main

import (
	"github.com/danmuck/stormlang/internal/multilang"
	"github.com/danmuck/stormlang/internal/protocol/message"
)

var defaultSentences = []string{
	"the cow jumped over the moon",
	"an apple a day keeps the doctor away",
	"four score and seven years ago",
	"snow white and the seven dwarfs",
	"i am at two with nature",
}

// sentenceSpout cycles through a fixed corpus. Failed sentences are replayed
// before new ones; acked ones are forgotten.
type sentenceSpout struct {
	sentences []string
	next      int
	active    bool
	pending   map[message.MessageID]string
	replay    []string
	out       *multilang.Collector
}

func newSentenceSpout(sentences []string) *sentenceSpout {
	return &sentenceSpout{
		sentences: sentences,
		active:    true,
		pending:   make(map[message.MessageID]string),
	}
}

func (s *sentenceSpout) Open(hs message.Handshake, out *multilang.Collector) error {
	s.out = out
	out.Logger().Info().Int("sentences", len(s.sentences)).Msg("sentence spout opened")
	return nil
}

func (s *sentenceSpout) NextTuple(out *multilang.Collector) error {
	if !s.active || len(s.sentences) == 0 {
		return nil
	}
	var sentence string
	if len(s.replay) > 0 {
		sentence = s.replay[0]
		s.replay = s.replay[1:]
	} else {
		sentence = s.sentences[s.next%len(s.sentences)]
		s.next++
	}
	id := multilang.NewMessageID()
	s.pending[id] = sentence
	_, err := out.Emit([]any{sentence}, multilang.EmitOptions{ID: id, SkipTaskIDs: true})
	return err
}

func (s *sentenceSpout) Ack(id message.MessageID) error {
	delete(s.pending, id)
	return nil
}

func (s *sentenceSpout) Fail(id message.MessageID) error {
	sentence, ok := s.pending[id]
	if !ok {
		s.out.Logger().Warn().Str("id", id.String()).Msg("fail for unknown message")
		return nil
	}
	delete(s.pending, id)
	s.replay = append(s.replay, sentence)
	return nil
}

func (s *sentenceSpout) Activate() error {
	s.active = true
	return nil
}

func (s *sentenceSpout) Deactivate() error {
	s.active = false
	return nil
}
