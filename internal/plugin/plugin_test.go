package plugin

import "testing"

func TestAutocmdEvent_Param(t *testing.T) {
	ev := NewAutocmdEvent("CursorMoved", []byte(`{"bufnr": 3, "pos": [12, 4]}`))

	if ev.Type != "CursorMoved" {
		t.Errorf("Type = %q, expected %q", ev.Type, "CursorMoved")
	}
	if got := ev.Param("bufnr").Int(); got != 3 {
		t.Errorf("Param(bufnr) = %d, expected 3", got)
	}
	if got := ev.Param("pos.0").Int(); got != 12 {
		t.Errorf("Param(pos.0) = %d, expected 12", got)
	}
	if ev.Param("missing").Exists() {
		t.Error("Param(missing) should not exist")
	}
}

func TestAutocmdEvent_HasParams(t *testing.T) {
	if NewAutocmdEvent("BufEnter", nil).HasParams() {
		t.Error("event without params should report HasParams() == false")
	}
	if !NewAutocmdEvent("BufEnter", []byte(`{}`)).HasParams() {
		t.Error("event with params should report HasParams() == true")
	}
}

func TestAutocmdEvent_String(t *testing.T) {
	if got := NewAutocmdEvent("BufWritePost", nil).String(); got != "BufWritePost" {
		t.Errorf("String() = %q, expected %q", got, "BufWritePost")
	}
}
