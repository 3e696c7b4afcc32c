package models

import (
	"bytes"
	"encoding/json"
)

// Answers is an ordered question -> answer mapping. Questions keep the
// position of their first occurrence; setting an existing question again
// replaces the answer in place, so duplicate question text collapses to a
// single entry holding the last computed answer.
type Answers struct {
	order   []string
	answers map[string]string
}

func NewAnswers() *Answers {
	return &Answers{answers: make(map[string]string)}
}

func (a *Answers) Set(question, answer string) {
	if _, ok := a.answers[question]; !ok {
		a.order = append(a.order, question)
	}
	a.answers[question] = answer
}

func (a *Answers) Get(question string) (string, bool) {
	answer, ok := a.answers[question]
	return answer, ok
}

func (a *Answers) Len() int {
	return len(a.order)
}

// Questions returns the question keys in insertion order.
func (a *Answers) Questions() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// MarshalJSON emits a JSON object whose keys preserve insertion order.
func (a *Answers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, q := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(q)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.answers[q])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
