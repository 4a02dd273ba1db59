package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseArgument,
				Kind:     KindArgument,
				Function: "CreateWindow",
				Param:    2,
				Path:     []string{"spec", "channels"},
				Type:     "u32",
				Detail:   "value -1 out of range",
			},
			contains: []string{"[argument]", "argument", "in CreateWindow", "param 2", "spec.channels", "type u32", "out of range"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseHandle,
				Kind:  KindInvalidHandle,
				Param: noParam,
			},
			contains: []string{"[handle]", "invalid_handle"},
			excludes: []string{"param"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLifecycle,
				Kind:   KindNative,
				Param:  noParam,
				Detail: "create failed",
				Cause:  stderrors.New("underlying error"),
			},
			contains: []string{"[lifecycle]", "native", "create failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(PhaseMarshal, KindShapeMismatch, cause, "decode")

	if !stderrors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !Is(err, cause) {
		t.Error("Is did not find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseHandle,
		Kind:  KindInvalidHandle,
		Param: noParam,
	}

	if !err.Is(&Error{Phase: PhaseHandle, Kind: KindInvalidHandle}) {
		t.Error("Is should match same phase and kind")
	}
	if !err.Is(ErrInvalidHandle) {
		t.Error("Is should match kind sentinel without phase")
	}
	if err.Is(&Error{Phase: PhaseNative, Kind: KindInvalidHandle}) {
		t.Error("Is should not match different phase when target sets one")
	}
	if err.Is(ErrNative) {
		t.Error("Is should not match different kind")
	}
}

func TestArgumentWrapsShapeMismatch(t *testing.T) {
	shape := ShapeMismatch([]string{"channels"}, 0, "u8", "below minimum %d", 1)
	err := Argument("OpenAudioDevice", 1, shape, "invalid audio spec")

	if !Is(err, ErrArgument) {
		t.Error("expected ArgumentError")
	}
	if !Is(err, ErrShapeMismatch) {
		t.Error("expected ShapeMismatch in chain")
	}
	if KindOf(err) != KindArgument {
		t.Errorf("KindOf = %q, want %q", KindOf(err), KindArgument)
	}
	if err.Param != 1 {
		t.Errorf("Param = %d, want 1", err.Param)
	}
}

func TestBuilder(t *testing.T) {
	cause := stderrors.New("root")
	err := New(PhaseDispatch, KindArgument).
		Function("SetWindowTitle").
		Param(1).
		Path("title").
		Type("string").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseDispatch {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDispatch)
	}
	if err.Function != "SetWindowTitle" {
		t.Errorf("Function = %v", err.Function)
	}
	if err.Param != 1 {
		t.Errorf("Param = %v, want 1", err.Param)
	}
	if len(err.Path) != 1 || err.Path[0] != "title" {
		t.Errorf("Path = %v, want [title]", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !stderrors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidUTF8", func(t *testing.T) {
		data := make([]byte, 64)
		data[0] = 0xff
		err := InvalidUTF8([]string{"title"}, data)
		if err.Kind != KindEncoding {
			t.Errorf("Kind = %v, want %v", err.Kind, KindEncoding)
		}
		if !strings.Contains(err.Detail, "ff") {
			t.Errorf("Detail should contain hex preview: %s", err.Detail)
		}
		if len(err.Detail) > 100 {
			t.Error("preview should be truncated")
		}
	})

	t.Run("InvalidHandle", func(t *testing.T) {
		err := InvalidHandle(0x10, "retired")
		if err.Kind != KindInvalidHandle || err.Value != uint64(0x10) {
			t.Errorf("unexpected %+v", err)
		}
	})

	t.Run("DuplicateAddress", func(t *testing.T) {
		err := DuplicateAddress("window", 0x1000)
		if !Is(err, ErrDuplicateAddress) {
			t.Error("expected DuplicateAddress")
		}
		if !strings.Contains(err.Error(), "window") {
			t.Errorf("message should name kind: %s", err)
		}
	})

	t.Run("Native", func(t *testing.T) {
		err := Native("CreateWindow", "No video driver")
		if err.Message() != "No video driver" {
			t.Errorf("Message = %q", err.Message())
		}
		if Native("x", "").Message() == "" {
			t.Error("empty native message should get a placeholder")
		}
	})

	t.Run("ThreadAffinity", func(t *testing.T) {
		err := ThreadAffinity("PollEvent", 10, 11)
		if err.Kind != KindThreadAffinity || err.Function != "PollEvent" {
			t.Errorf("unexpected %+v", err)
		}
	})

	t.Run("UnsupportedEventKind", func(t *testing.T) {
		err := UnsupportedEventKind(0x1100, "audio-device")
		if !Is(err, ErrUnsupportedEventKind) {
			t.Error("expected UnsupportedEventKind")
		}
	})

	t.Run("NotInitialized", func(t *testing.T) {
		err := NotInitialized("CreateWindow", 0x20)
		if err.Value != uint32(0x20) {
			t.Errorf("Value = %v", err.Value)
		}
	})
}
