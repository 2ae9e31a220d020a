package structured_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/app/structured"
)

func TestExtractMatchesDirectParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		prefix  string
		suffix  string
	}{
		{"array with prose", `[{"name":"আলু","unit":"কেজি","priceRange":"৳৩০-৩৫","trend":"up"}]`, "আজকের বাজারদর নিচে দেওয়া হলো:\n", "\nধন্যবাদ।"},
		{"object with prose", `{"title":"নোটিশ","priority":"high"}`, "Here you go: ", " Hope this helps."},
		{"nested", `{"items":[[1,2],[3,{"a":"]"}]]}`, "result -> ", ""},
		{"brackets inside strings", `["a ] b", "c { d", "e \" ] f"]`, "", "."},
		{"markdown fence", `[{"title":"খবর","source":"Facebook","time":"১০ মিনিট আগে"}]`, "```json\n", "\n```"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var want any
			if err := json.Unmarshal([]byte(tc.payload), &want); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}

			got := structured.Extract(tc.prefix + tc.payload + tc.suffix)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Extract = %#v, want %#v", got, want)
			}
		})
	}
}

func TestExtractReturnsNil(t *testing.T) {
	inputs := []string{
		"",
		"কোনো তথ্য পাওয়া যায়নি",
		"unbalanced [1, 2",
		"not json {at all}",
		"} reversed {",
	}
	for _, in := range inputs {
		if got := structured.Extract(in); got != nil {
			t.Errorf("Extract(%q) = %#v, want nil", in, got)
		}
	}
}

func TestExtractSkipsBracketedProse(t *testing.T) {
	text := `[সূত্র: রাজবাড়ী বাজার] তালিকা: [{"name":"চাল"}] এবং {"extra":true}`

	got := structured.Extract(text)
	want := []any{map[string]any{"name": "চাল"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %#v, want %#v", got, want)
	}
}

func TestExtractListTyped(t *testing.T) {
	type item struct {
		Name string `json:"name"`
		Unit string `json:"unit"`
	}

	text := `{"note":"see list"} [{"name":"ডিম","unit":"ডজন"},{"name":"চাল","unit":"কেজি"}]`
	items, ok := structured.ExtractList[item](text)
	if !ok {
		t.Fatalf("expected a list")
	}
	if len(items) != 2 || items[0].Name != "ডিম" || items[1].Unit != "কেজি" {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, ok := structured.ExtractList[item]("[]"); ok {
		t.Fatalf("empty list should not count as extracted")
	}
}

func TestExtractLargeUnbalancedInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"only openers", strings.Repeat("{", 200000), nil},
		{"mixed openers", strings.Repeat("[{", 100000), nil},
		{"payload after dangling openers", strings.Repeat("[", 100000) + `{"ok":true}`, map[string]any{"ok": true}},
		{"deep invalid block", strings.Repeat("{", 50000) + strings.Repeat("}", 50000), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			started := time.Now()
			got := structured.Extract(tc.text)
			if elapsed := time.Since(started); elapsed > time.Second {
				t.Fatalf("Extract took %s on %d bytes", elapsed, len(tc.text))
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Extract = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestExtractPrefersOuterBlock(t *testing.T) {
	if got := structured.Extract("x [1,2] y"); !reflect.DeepEqual(got, []any{1.0, 2.0}) {
		t.Fatalf("Extract = %#v", got)
	}

	got := structured.Extract(`note: {"a":[1],"b":"]"} tail`)
	want := map[string]any{"a": []any{1.0}, "b": "]"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %#v, want %#v", got, want)
	}
}
