package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

func textMsg(text string) a2a.Message {
	return a2a.Message{
		Role:  a2a.RoleUser,
		Parts: []Part{{Kind: a2a.PartText, Text: text}},
		Kind:  "message",
	}
}

// Part alias keeps the test tables short.
type Part = a2a.Part

func TestExtractExplicitFieldsWin(t *testing.T) {
	msg := a2a.Message{
		Role: a2a.RoleUser,
		Parts: []Part{
			{Kind: a2a.PartText, Text: "please scan https://from-text.example"},
			{Kind: a2a.PartData, Data: map[string]any{"url": "https://explicit.example"}},
		},
	}

	p := Extract(msg)
	assert.Equal(t, "https://explicit.example", p.URL)
}

func TestExplicitFieldShortCircuitsTextMining(t *testing.T) {
	msg := a2a.Message{
		Role: a2a.RoleUser,
		Parts: []Part{
			{Kind: a2a.PartData, Data: map[string]any{"url": "https://a.com"}},
			{Kind: a2a.PartText, Text: "test@b.com"},
		},
	}

	p := Extract(msg)
	assert.Equal(t, "https://a.com", p.URL)
	assert.Empty(t, p.Email, "an explicit url must suppress email extraction")
	assert.Equal(t, "test@b.com", p.RawText)
}

func TestExtractFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Params
	}{
		{
			name: "scheme url",
			text: "is https://evil.example/login safe?",
			want: Params{URL: "https://evil.example/login"},
		},
		{
			name: "url trailing punctuation stripped",
			text: "check http://shop.example/cart.",
			want: Params{URL: "http://shop.example/cart"},
		},
		{
			name: "email",
			text: "analyze bob@startup.io please",
			want: Params{Email: "bob@startup.io"},
		},
		{
			name: "email does not leak a bare host",
			text: "contact bob@startup.io",
			want: Params{Email: "bob@startup.io"},
		},
		{
			name: "bare dotted token coerced to https",
			text: "what about shady-site.ru",
			want: Params{URL: "https://shady-site.ru"},
		},
		{
			name: "wallet address",
			text: "check 0x52908400098527886E0F7030069857D2E4169EE7 for me",
			want: Params{Wallet: "0x52908400098527886E0F7030069857D2E4169EE7"},
		},
		{
			name: "nothing extractable",
			text: "hello there",
			want: Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(textMsg(tt.text))
			assert.Equal(t, tt.want.URL, got.URL)
			assert.Equal(t, tt.want.Email, got.Email)
			assert.Equal(t, tt.want.Wallet, got.Wallet)
			assert.Equal(t, tt.text, got.RawText)
		})
	}
}

func TestExtractURLBeatsBareToken(t *testing.T) {
	p := Extract(textMsg("compare example.org against https://real.example"))
	assert.Equal(t, "https://real.example", p.URL)
}

func TestFromMapLegacyParams(t *testing.T) {
	p := FromMap(map[string]any{"domain": "example.com"})
	assert.Equal(t, "example.com", p.Domain)
	assert.True(t, p.URL == "" && p.Email == "")

	p = FromMap(map[string]any{"text": "scan https://a.example now"})
	assert.Equal(t, "https://a.example", p.URL)

	p = FromMap(map[string]any{"wallet": "0x52908400098527886E0F7030069857D2E4169EE7"})
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", p.Wallet)

	// Non-string values are ignored rather than coerced.
	p = FromMap(map[string]any{"url": 42})
	assert.Empty(t, p.URL)
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want string
	}{
		{"url wins", Params{URL: "https://x.example", Email: "a@b.co"}, model.SkillScanURL},
		{"domain", Params{Domain: "x.example"}, model.SkillCheckDomain},
		{"plain email", Params{Email: "a@b.co"}, model.SkillAnalyzeEmail},
		{"email with breach intent", Params{Email: "a@b.co", RawText: "was a@b.co in a breach?"}, model.SkillCheckBreach},
		{"email with pwned intent", Params{Email: "a@b.co", RawText: "pwned?"}, model.SkillCheckBreach},
		{"wallet after core kinds", Params{Wallet: "0x0000000000000000000000000000000000000000"}, model.SkillCheckWallet},
		{"keyword breach without email", Params{RawText: "any data leak lately"}, model.SkillCheckBreach},
		{"keyword whois", Params{RawText: "whois lookup please"}, model.SkillCheckDomain},
		{"keyword url beats domain", Params{RawText: "which domain hosts this url"}, model.SkillScanURL},
		{"keyword http", Params{RawText: "got an http link to check"}, model.SkillScanURL},
		{"default", Params{RawText: "hello"}, model.SkillScanURL},
		{"empty", Params{}, model.SkillScanURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.p))
		})
	}
}

func TestEmpty(t *testing.T) {
	assert.True(t, Params{RawText: "hi"}.Empty())
	assert.False(t, Params{URL: "https://x.example"}.Empty())
}
