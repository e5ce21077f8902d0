package fetch

import (
	"reflect"
	"testing"
)

func TestPrimaryMediaType(t *testing.T) {
	cases := map[string]string{
		"application/json":                "application/json",
		"Application/JSON; charset=utf-8": "application/json",
		"  text/csv ;header=present":      "text/csv",
		"":                                "",
		";charset=utf-8":                  "",
	}
	for in, want := range cases {
		if got := PrimaryMediaType(in); got != want {
			t.Errorf("PrimaryMediaType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultRegistryCoversKnownMediaTypes(t *testing.T) {
	reg := DefaultRegistry()
	for _, mt := range []string{MediaTypeJSON, MediaTypeXML, MediaTypeForm, MediaTypeText, MediaTypeCSV, MediaTypeHTML} {
		if _, ok := reg.Lookup(mt); !ok {
			t.Errorf("no decoder for %s", mt)
		}
	}
	if _, ok := reg.Lookup("application/octet-stream"); ok {
		t.Errorf("unexpected decoder for application/octet-stream")
	}
}

func TestRegistryRegisterOverrides(t *testing.T) {
	reg := DefaultRegistry()
	reg.Register("Application/XML", func([]byte) (Value, error) { return "xml", nil })
	dec, ok := reg.Lookup("application/xml; charset=utf-8")
	if !ok {
		t.Fatalf("decoder missing")
	}
	if v, _ := dec(nil); v != "xml" {
		t.Fatalf("override not applied, got %v", v)
	}
}

func TestDecodeTextKeepsBody(t *testing.T) {
	v, err := DecodeText([]byte("<html><body>hi</body></html>"))
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if v != "<html><body>hi</body></html>" {
		t.Fatalf("unexpected value %#v", v)
	}

	v, _ = DecodeText([]byte{'a', 0xff, 'b'})
	if v != "a�b" {
		t.Fatalf("expected lossy replacement, got %q", v)
	}

	v, _ = DecodeText(nil)
	if v != "" {
		t.Fatalf("expected empty string, got %#v", v)
	}
}

func TestDecodeFormLastValueWins(t *testing.T) {
	v, err := DecodeForm([]byte("team=Arsenal+FC&team=Chelsea%20FC&bad=%zz&empty=&&flag"))
	if err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
	want := map[string]any{"team": "Chelsea FC", "bad": "%zz", "empty": "", "flag": ""}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeFormKeepsLooseSyntax(t *testing.T) {
	cases := map[string]map[string]any{
		"a=1;b=2&pct=100%":     {"a": "1;b=2", "pct": "100%"},
		"name=O%zzN":           {"name": "O%zzN"},
		"q=a=b&city=M%C3%BCnc": {"q": "a=b", "city": "M\u00fcnc"},
		"bytes=%FF":            {"bytes": "\uFFFD"},
	}
	for body, want := range cases {
		v, err := DecodeForm([]byte(body))
		if err != nil {
			t.Fatalf("DecodeForm(%q): %v", body, err)
		}
		if !reflect.DeepEqual(v, want) {
			t.Fatalf("DecodeForm(%q) = %#v, want %#v", body, v, want)
		}
	}
}

func TestDecodeCSVAcceptsBareQuotes(t *testing.T) {
	v, err := DecodeCSV([]byte("team,nick\nArsenal FC,The \"Gunners\"\nChelsea FC,Blues\n"))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	want := []any{
		map[string]any{"team": "Arsenal FC", "nick": `The "Gunners"`},
		map[string]any{"team": "Chelsea FC", "nick": "Blues"},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}

	v, err = DecodeCSV([]byte("te\"am,nick\nArsenal FC,Gunners\n"))
	if err != nil {
		t.Fatalf("bare quote in header: %v", err)
	}
	want = []any{map[string]any{`te"am`: "Arsenal FC", "nick": "Gunners"}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeCSVSkipsBrokenRows(t *testing.T) {
	body := "team,points\nArsenal FC,89\nbroken\nChelsea FC,\"63\nLiverpool FC,82\n"
	v, err := DecodeCSV([]byte(body))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	rows, ok := v.([]any)
	if !ok {
		t.Fatalf("expected sequence, got %T", v)
	}
	if len(rows) == 0 || !reflect.DeepEqual(rows[0], map[string]any{"team": "Arsenal FC", "points": "89"}) {
		t.Fatalf("unexpected rows %#v", rows)
	}
	for _, r := range rows {
		m := r.(map[string]any)
		if len(m) != 2 {
			t.Fatalf("row with wrong width leaked through: %#v", m)
		}
	}
}

func TestDecodeCSVEmptyBody(t *testing.T) {
	v, err := DecodeCSV(nil)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if rows, ok := v.([]any); !ok || len(rows) != 0 {
		t.Fatalf("expected empty sequence, got %#v", v)
	}
}

func TestDecodeJSONRejectsTrailingGarbage(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"a":1} x`)); err == nil {
		t.Fatalf("expected error")
	}
	v, err := DecodeJSON([]byte(" null "))
	if err != nil || v != nil {
		t.Fatalf("expected nil value, got %#v err=%v", v, err)
	}
}
