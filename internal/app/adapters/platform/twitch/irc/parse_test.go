package irc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		tags    Tags
		prefix  string
		command string
		params  []string
	}{
		{
			name: "privmsg with tags",
			raw:  "@badge-info=;display-name=Ronni :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa Keepo Kappa",
			tags: Tags{
				"badge-info":   {Value: ""},
				"display-name": {Value: "Ronni"},
			},
			prefix:  "ronni!ronni@ronni.tmi.twitch.tv",
			command: "PRIVMSG",
			params:  []string{"#dallas", "Kappa Keepo Kappa"},
		},
		{
			name:    "ping",
			raw:     "PING :tmi.twitch.tv",
			tags:    Tags{},
			command: "PING",
			params:  []string{"tmi.twitch.tv"},
		},
		{
			name:    "flag tag",
			raw:     "@emote-only;mod=1 :tmi.twitch.tv ROOMSTATE #dallas",
			tags:    Tags{"emote-only": {Flag: true}, "mod": {Value: "1"}},
			prefix:  "tmi.twitch.tv",
			command: "ROOMSTATE",
			params:  []string{"#dallas"},
		},
		{
			name:    "value keeps everything after first equals",
			raw:     "@msg=a=b=c CMD x",
			tags:    Tags{"msg": {Value: "a=b=c"}},
			command: "CMD",
			params:  []string{"x"},
		},
		{
			name:    "redundant spaces between segments",
			raw:     "@a=1   :nick!u@h   JOIN    #chan",
			tags:    Tags{"a": {Value: "1"}},
			prefix:  "nick!u@h",
			command: "JOIN",
			params:  []string{"#chan"},
		},
		{
			name:    "middle params then trailing",
			raw:     ":tmi.twitch.tv 353 justinfan123 = #dallas :ronni fred wilma",
			tags:    Tags{},
			prefix:  "tmi.twitch.tv",
			command: "353",
			params:  []string{"justinfan123", "=", "#dallas", "ronni fred wilma"},
		},
		{
			name:    "last param without colon",
			raw:     ":nick!u@h PART #chan",
			tags:    Tags{},
			prefix:  "nick!u@h",
			command: "PART",
			params:  []string{"#chan"},
		},
		{
			name:    "empty trailing",
			raw:     "PRIVMSG #chan :",
			tags:    Tags{},
			command: "PRIVMSG",
			params:  []string{"#chan", ""},
		},
		{
			name:    "command followed by space only",
			raw:     ":tmi.twitch.tv RECONNECT ",
			tags:    Tags{},
			prefix:  "tmi.twitch.tv",
			command: "RECONNECT",
			params:  []string{},
		},
		{
			name:    "empty tag entries are skipped",
			raw:     "@a=1;;b CMD p",
			tags:    Tags{"a": {Value: "1"}, "b": {Flag: true}},
			command: "CMD",
			params:  []string{"p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := Parse(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, tt.raw, msg.Raw)
			assert.Equal(t, tt.tags, msg.Tags)
			assert.Equal(t, tt.prefix, msg.Prefix)
			assert.Equal(t, tt.command, msg.Command)
			assert.Equal(t, tt.params, msg.Params)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		kind ParseErrorKind
		is   error
	}{
		{"tags without space", "@x", MalformedTags, ErrMalformedTags},
		{"prefix without space", ":tmi.twitch.tv", MalformedPrefix, ErrMalformedPrefix},
		{"tags then prefix without space", "@a=b :tmi.twitch.tv", MalformedPrefix, ErrMalformedPrefix},
		{"bare command", "PING", MissingCommand, ErrMissingCommand},
		{"prefix then bare command", ":tmi.twitch.tv RECONNECT", MissingCommand, ErrMissingCommand},
		{"tags and no command", "@a=b ", MissingCommand, ErrMissingCommand},
		{"empty line", "", MissingCommand, ErrMissingCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := Parse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, tt.is)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.raw, perr.Line)
		})
	}
}

func TestMessage_StringRoundTrip(t *testing.T) {
	t.Parallel()

	lines := []string{
		"@k1=v1;k2 :prefix COMMAND p1 p2 :trailing text",
		"@badge-info=;display-name=Ronni :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa Keepo Kappa",
		"@emote-only :tmi.twitch.tv ROOMSTATE #dallas",
		"@a=x=y;b=;c CMD :",
		"@flag :p CMD a b c",
		"PING :tmi.twitch.tv",
		":tmi.twitch.tv RECONNECT ",
		"CMD :colon:first",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			t.Parallel()

			first, err := Parse(line)
			require.NoError(t, err)

			second, err := Parse(first.String())
			require.NoError(t, err)

			assert.Equal(t, first.Tags, second.Tags)
			assert.Equal(t, first.Prefix, second.Prefix)
			assert.Equal(t, first.Command, second.Command)
			assert.Equal(t, first.Params, second.Params)
		})
	}
}

func TestMessage_Helpers(t *testing.T) {
	t.Parallel()

	msg, err := Parse("@display-name=Ronni :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa Keepo Kappa")
	require.NoError(t, err)

	assert.Equal(t, "ronni", msg.Nick())
	assert.Equal(t, "Ronni", msg.DisplayName())
	assert.Equal(t, "dallas", msg.Channel())
	assert.Equal(t, "Kappa Keepo Kappa", msg.Text())

	noTag, err := Parse(":fred!fred@fred.tmi.twitch.tv PRIVMSG #dallas :hi")
	require.NoError(t, err)
	assert.Equal(t, "fred", noTag.DisplayName())

	ping, err := Parse("PING :tmi.twitch.tv")
	require.NoError(t, err)
	assert.Empty(t, ping.Channel())
	assert.Empty(t, ping.Text())
}

func BenchmarkParse(b *testing.B) {
	line := "@badge-info=subscriber/8;badges=subscriber/6;color=#0D4200;display-name=dallas;emotes=25:0-4,12-16/1902:6-10;first-msg=0;id=b34ccfc7-4977-403a-8a94-33c6bac34fb8;mod=0;room-id=1337;subscriber=1;tmi-sent-ts=1507246572675;turbo=1;user-id=1337;user-type=global_mod :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo Kappa"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(line)
	}
}
