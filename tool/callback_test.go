package tool

import "testing"

func TestResponseEnvelope(t *testing.T) {
	if resp := FastReturnError("boom"); resp["ok"] != false || resp["error"] != "boom" {
		t.Errorf("FastReturnError = %v", resp)
	}
	if resp := FastReturnSuccess(); resp["ok"] != true {
		t.Errorf("FastReturnSuccess = %v", resp)
	}
	if resp := FastReturnSuccessWithData(42); resp["ok"] != true || resp["data"] != 42 {
		t.Errorf("FastReturnSuccessWithData = %v", resp)
	}

	resp := FastReturnErrorWithData("bad input", map[string]any{"index": 1, "ok": true, "error": "hidden"})
	if resp["ok"] != false || resp["error"] != "bad input" || resp["index"] != 1 {
		t.Errorf("FastReturnErrorWithData = %v", resp)
	}
}
