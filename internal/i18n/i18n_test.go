package i18n

import (
	"strings"
	"testing"
)

// TestCatalogCompleteness 两种语言的消息表必须覆盖同一组消息 ID
func TestCatalogCompleteness(t *testing.T) {
	for id := range messagesEN {
		if _, ok := messagesZH[id]; !ok {
			t.Errorf("message %q missing from zh catalog", id)
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("message %q missing from en catalog", id)
		}
	}
}

// TestFormatVerbConsistency 同一消息在两种语言里的格式化动词数量必须一致
func TestFormatVerbConsistency(t *testing.T) {
	countVerbs := func(s string) int {
		n := 0
		for i := 0; i < len(s)-1; i++ {
			if s[i] == '%' {
				if s[i+1] == '%' {
					i++
					continue
				}
				n++
			}
		}
		return n
	}
	for id, en := range messagesEN {
		zh, ok := messagesZH[id]
		if !ok {
			continue
		}
		if countVerbs(en) != countVerbs(zh) {
			t.Errorf("message %q: en has %d format verbs, zh has %d",
				id, countVerbs(en), countVerbs(zh))
		}
	}
}

func TestLanguageSwitch(t *testing.T) {
	defer SetLanguage(LangEnglish)

	SetLanguage(LangEnglish)
	en := T(ErrUnterminatedString)
	SetLanguage(LangChinese)
	zh := T(ErrUnterminatedString)

	if en == zh {
		t.Errorf("expected different text per language, got %q for both", en)
	}
	if GetLanguage() != LangChinese {
		t.Errorf("expected current language zh, got %s", GetLanguage())
	}
}

func TestFormatArgs(t *testing.T) {
	SetLanguage(LangEnglish)
	msg := T(ErrMismatchedCloseTag, "div", "span")
	if !strings.Contains(msg, "div") || !strings.Contains(msg, "span") {
		t.Errorf("expected both tag names in message, got %q", msg)
	}
}

func TestUnknownMessageIDFallsBack(t *testing.T) {
	SetLanguage(LangEnglish)
	msg := T("no.such.message")
	if msg == "" {
		t.Error("unknown message ID must not produce empty text")
	}
}

func TestSetLanguageFromString(t *testing.T) {
	defer SetLanguage(LangEnglish)

	SetLanguageFromString("zh")
	if GetLanguage() != LangChinese {
		t.Errorf("expected zh, got %s", GetLanguage())
	}
	SetLanguageFromString("en")
	if GetLanguage() != LangEnglish {
		t.Errorf("expected en, got %s", GetLanguage())
	}
}
