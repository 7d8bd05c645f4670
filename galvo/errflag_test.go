package galvo

import "testing"

func TestErrFlag(t *testing.T) {
	var f ErrFlag

	if _, ok := f.Take(); ok {
		t.Error("New flag should hold no error")
	}

	f.Raise(ErrCodeStepUnderrun)
	code, ok := f.Take()
	if !ok || code != ErrCodeStepUnderrun {
		t.Errorf("Expected underrun code, got %d %v", code, ok)
	}

	if _, ok := f.Take(); ok {
		t.Error("Take should clear the flag")
	}

	// A later raise overwrites an unread code
	f.Raise(ErrCodeStepUnderrun)
	f.Raise(ErrCodeDACWrite)
	code, ok = f.Take()
	if !ok || code != ErrCodeDACWrite {
		t.Errorf("Expected the most recent code, got %d", code)
	}
}

func TestCodeString(t *testing.T) {
	if CodeString(ErrCodeStepUnderrun) == "" || CodeString(200) == "" {
		t.Error("Every code must map to some text")
	}
}
