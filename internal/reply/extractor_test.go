package reply

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "flat message is trimmed",
			body: `[{"type":"text","payload":{"message":"  hi  "}}]`,
			want: "hi",
		},
		{
			name: "rich text blocks as node arrays",
			body: `[{"type":"text","payload":{"slate":{"content":[[{"text":"a"},{"text":"b"}],[{"text":"c"}]]}}}]`,
			want: "a b\nc",
		},
		{
			name: "rich text blocks with children",
			body: `[{"type":"text","payload":{"slate":{"content":[
				{"children":[{"text":"Hello"},{"type":"link","children":[{"text":" world "}]}]},
				{"children":[{"text":"Second"}]}
			]}}}]`,
			want: "Hello world\nSecond",
		},
		{
			name: "bare block list",
			body: `[{"type":"text","payload":{"slate":[[{"text":"x"}]]}}]`,
			want: "x",
		},
		{
			name: "message preferred over slate",
			body: `[{"type":"text","payload":{"message":"plain","slate":{"content":[[{"text":"rich"}]]}}}]`,
			want: "plain",
		},
		{
			name: "blank message falls back to slate",
			body: `[{"type":"text","payload":{"message":"   ","slate":{"content":[[{"text":"rich"}]]}}}]`,
			want: "rich",
		},
		{
			name: "events joined with newline in order",
			body: `[
				{"type":"text","payload":{"message":"first"}},
				{"type":"speak","payload":{"message":"ignored"}},
				{"type":"text","payload":{"message":"second"}}
			]`,
			want: "first\nsecond",
		},
		{
			name: "only non-text events",
			body: `[{"type":"speak","payload":{"message":"x"}},{"type":"visual","payload":{}},{"type":"end"}]`,
			want: "",
		},
		{
			name: "blank fragments dropped",
			body: `[{"type":"text","payload":{"slate":{"content":[[{"text":"  "},{"text":"a"},{"text":""}],[{"text":" "}]]}}}]`,
			want: "a",
		},
		{
			name: "event with neither shape contributes nothing",
			body: `[{"type":"text","payload":{"other":1}},{"type":"text","payload":"str"},{"type":"text"},"junk",7,{"type":"text","payload":{"message":"ok"}}]`,
			want: "ok",
		},
		{
			name: "non-string message and malformed nodes tolerated",
			body: `[{"type":"text","payload":{"message":42,"slate":{"content":[[1,{"text":5},{"text":"fine"}]]}}}]`,
			want: "fine",
		},
		{name: "object is not a sequence", body: `{"trace":[]}`, want: ""},
		{name: "string is not a sequence", body: `"hello"`, want: ""},
		{name: "null", body: `null`, want: ""},
		{name: "invalid json", body: `[{`, want: ""},
		{name: "empty array", body: `[]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract([]byte(tt.body)); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromEvents_NilInput(t *testing.T) {
	if got := FromEvents(nil); got != "" {
		t.Errorf("FromEvents(nil) = %q, want empty", got)
	}
}
