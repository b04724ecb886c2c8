package icons

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// keywords maps lower-case words (English and Portuguese) to icons. Earlier
// entries win when several keywords match.
var keywords = []struct {
	word string
	icon string
}{
	{"security", "shield"}, {"segurança", "shield"}, {"privacy", "lock"}, {"password", "key"}, {"senha", "key"},
	{"revenue", "coin"}, {"receita", "coin"}, {"price", "credit-card"}, {"preço", "credit-card"}, {"payment", "credit-card"},
	{"sales", "shopping-cart"}, {"vendas", "shopping-cart"}, {"market", "chart-pie"}, {"mercado", "chart-pie"},
	{"growth", "chart-area"}, {"crescimento", "chart-area"}, {"data", "chart-dots"}, {"dados", "chart-dots"},
	{"metric", "dashboard"}, {"métrica", "dashboard"}, {"business", "briefcase"}, {"negócio", "briefcase"},
	{"cloud", "cloud-computing"}, {"nuvem", "cloud-computing"}, {"code", "code-circle"}, {"código", "code-circle"},
	{"software", "device-desktop"}, {"mobile", "device-mobile"}, {"celular", "device-mobile"},
	{"email", "mail"}, {"e-mail", "mail"}, {"phone", "phone"}, {"telefone", "phone"}, {"chat", "message-circle"},
	{"communication", "message"}, {"comunicação", "message"}, {"alert", "bell"}, {"notification", "bell"},
	{"video", "video"}, {"vídeo", "video"}, {"podcast", "microphone"}, {"audio", "headphones"},
	{"learn", "book"}, {"aprend", "book"}, {"study", "library"}, {"estudo", "library"}, {"idea", "bulb"}, {"ideia", "bulb"},
	{"innovation", "bulb"}, {"inovação", "bulb"}, {"teach", "presentation"}, {"ensin", "presentation"},
	{"health", "heart"}, {"saúde", "heart"}, {"medic", "medical-cross"}, {"médic", "medical-cross"}, {"hospital", "hospital-circle"},
	{"time", "clock"}, {"tempo", "clock"}, {"deadline", "hourglass"}, {"prazo", "hourglass"}, {"schedule", "calendar"},
	{"agenda", "calendar"}, {"history", "timeline-event"}, {"história", "timeline-event"},
	{"location", "map-pin"}, {"local", "map-pin"}, {"global", "globe"}, {"world", "globe"}, {"mundo", "globe"},
	{"strategy", "compass"}, {"estratégia", "compass"}, {"direction", "navigation"},
	{"photo", "photo"}, {"foto", "photo"}, {"camera", "camera"}, {"câmera", "camera"},
	{"team", "user"}, {"equipe", "user"}, {"people", "user"}, {"pessoas", "user"}, {"customer", "user"}, {"cliente", "user"},
	{"quality", "star"}, {"qualidade", "star"}, {"success", "thumb-up"}, {"sucesso", "thumb-up"},
	{"vision", "eye"}, {"visão", "eye"}, {"protect", "shield-check"}, {"proteção", "shield-check"},
	{"energy", "sun"}, {"energia", "sun"}, {"water", "droplet"}, {"água", "droplet"}, {"climate", "temperature"}, {"clima", "temperature"},
	{"food", "apple"}, {"comida", "apple"}, {"aliment", "apple"},
	{"transport", "truck"}, {"logistic", "truck"}, {"logística", "truck"}, {"car", "car"}, {"carro", "car"}, {"travel", "train"}, {"viagem", "train"},
	{"risk", "alert-circle"}, {"risco", "alert-circle"}, {"question", "help-circle"}, {"pergunta", "help-circle"},
	{"info", "info-circle"}, {"next", "arrow-right"}, {"próximo", "arrow-right"},
}

var (
	matcherOnce sync.Once
	matcher     *ahocorasick.Matcher
)

func keywordMatcher() *ahocorasick.Matcher {
	matcherOnce.Do(func() {
		dict := make([]string, len(keywords))
		for i, k := range keywords {
			dict[i] = k.word
		}
		matcher = ahocorasick.NewStringMatcher(dict)
	})
	return matcher
}

// Suggest picks a catalog icon for free text such as an item title or an
// icon keyword. Text that matches no keyword yields Default.
func Suggest(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Default
	}
	if n := Normalize(text); n != Default || text == Default {
		return n
	}
	hits := keywordMatcher().Match([]byte(text))
	if len(hits) == 0 {
		return Default
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return keywords[best].icon
}

// Resolve returns the icon for an item: its explicit name when known,
// otherwise a suggestion from the keyword and then the title.
func Resolve(name, keyword, title string) string {
	if n := Normalize(name); n != Default || strings.EqualFold(strings.TrimSpace(name), Default) {
		return n
	}
	if s := Suggest(keyword); s != Default {
		return s
	}
	return Suggest(title)
}
