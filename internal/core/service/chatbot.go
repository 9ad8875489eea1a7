package service

import (
	"context"
	"strings"
	"time"

	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

const (
	defaultReplyDelay = 700 * time.Millisecond
	fallbackRule      = "fallback"

	// FallbackReply answers any message no rule matches.
	FallbackReply = "No entiendo tu consulta. ¿Podrías reformularla?"
)

// Rule answers with Response when the lower-cased message contains any of
// Keywords.
type Rule struct {
	Name     string
	Keywords []string
	Response string
}

// DefaultRules is the bot's whole behavior. Order matters: the first matching
// rule wins, so a message mentioning both "ofg" and "recomienda" gets the OFG
// answer.
var DefaultRules = []Rule{
	{
		Name:     "ofg",
		Keywords: []string{"ofg", "optativo"},
		Response: "¡Buena elección buscar OFGs! Te recomiendo LET1000 (Literatura Contemporánea) que tiene excelentes evaluaciones de los estudiantes y una carga académica moderada.",
	},
	{
		Name:     "engineering",
		Keywords: []string{"ingeniería", "computación"},
		Response: "Para cursos de ingeniería en computación, IIC2233 (Programación Avanzada) es muy valorado y proporciona habilidades fundamentales. Ten en cuenta que tiene una dificultad alta pero muy buenas evaluaciones.",
	},
	{
		Name:     "easy",
		Keywords: []string{"fácil", "facil", "baja carga"},
		Response: "Si buscas cursos con baja carga académica, te recomiendo explorar los OFGs del área de humanidades, como LET1000. Tienen buenas evaluaciones y generalmente menor carga de trabajo.",
	},
	{
		Name:     "hard",
		Keywords: []string{"difícil", "dificil", "desafiante"},
		Response: "Para un desafío académico, los cursos de Matemáticas como MAT1610 (Cálculo I) o cursos avanzados de ingeniería como IIC2233 suelen tener alta dificultad pero son muy valorados por su calidad educativa.",
	},
	{
		Name:     "help",
		Keywords: []string{"ayuda", "recomienda"},
		Response: "Puedo ayudarte con recomendaciones de cursos. ¿Qué área de estudio te interesa? ¿Buscas cursos con baja carga académica o algo más desafiante?",
	},
}

// KeywordBot is a deterministic keyword matcher with a simulated latency.
type KeywordBot struct {
	rules []Rule
	delay time.Duration
}

// NewKeywordBot returns a bot over DefaultRules. A negative delay disables the
// simulated latency; zero selects the default.
func NewKeywordBot(delay time.Duration) *KeywordBot {
	if delay == 0 {
		delay = defaultReplyDelay
	}
	if delay < 0 {
		delay = 0
	}
	return &KeywordBot{rules: DefaultRules, delay: delay}
}

// Match returns the name and response of the first rule matching content.
func (b *KeywordBot) Match(content string) (string, string) {
	lower := strings.ToLower(content)
	for _, r := range b.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Name, r.Response
			}
		}
	}
	return fallbackRule, FallbackReply
}

// Reply satisfies ports.Replier. It waits out the simulated latency unless ctx
// ends first.
func (b *KeywordBot) Reply(ctx context.Context, content string) (string, error) {
	if b.delay > 0 {
		t := time.NewTimer(b.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	rule, reply := b.Match(content)
	metrics.ChatRepliesTotal.WithLabelValues(rule).Inc()
	return reply, nil
}
