package engine

import (
	"reflect"
	"testing"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/model"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(config.DefaultConfig())
}

func hasReason(out model.Outcome, code model.ReasonCode) bool {
	for _, r := range out.Reasons {
		if r == code {
			return true
		}
	}
	return false
}

func TestClassify_AcceptsCompileInvocation(t *testing.T) {
	c := newTestClassifier(t)

	line := "/usr/bin/gcc -c -o foo.o foo.c"
	out := c.Classify(line)

	if !out.Accepted {
		t.Fatalf("expected accept, got reasons %v", out.Reasons)
	}
	if out.Record.Command != line {
		t.Fatalf("command not verbatim: %q", out.Record.Command)
	}
	if out.Record.File != "foo.c" {
		t.Fatalf("expected file foo.c, got %q", out.Record.File)
	}
	if out.Record.Directory != "" {
		t.Fatalf("classifier must not fill directory, got %q", out.Record.Directory)
	}
}

func TestClassify_PreservesInteriorWhitespace(t *testing.T) {
	c := newTestClassifier(t)

	line := "/usr/bin/gcc   -c  -o foo.o   foo.c"
	out := c.Classify(line)

	if !out.Accepted {
		t.Fatalf("expected accept, got reasons %v", out.Reasons)
	}
	if out.Record.Command != line {
		t.Fatalf("interior whitespace was not preserved: %q", out.Record.Command)
	}
}

func TestClassify_RejectsBuildSystemChatter(t *testing.T) {
	c := newTestClassifier(t)

	out := c.Classify("make[1]: Entering directory '/src'")
	if out.Accepted {
		t.Fatal("expected reject")
	}

	want := []model.ReasonCode{
		model.MissingCompileFlag,
		model.MissingOutputFlag,
		model.MissingSourceExtension,
		model.NotACompilerInvocation,
	}
	for _, code := range want {
		if !hasReason(out, code) {
			t.Fatalf("missing reason %s in %v", code, out.Reasons)
		}
	}
}

func TestClassify_RejectionReasons(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		name   string
		line   string
		want   []model.ReasonCode
		butNot []model.ReasonCode
	}{
		{
			name:   "flag prefix does not satisfy boundary check",
			line:   "/usr/bin/gcc -coconut -o foo.o foo.c",
			want:   []model.ReasonCode{model.MissingCompileFlag},
			butNot: []model.ReasonCode{model.MissingOutputFlag, model.MissingSourceExtension, model.NotACompilerInvocation},
		},
		{
			name:   "compiler name embedded in another token",
			line:   "mygcc -c -o foo.o foo.c",
			want:   []model.ReasonCode{model.NotACompilerInvocation},
			butNot: []model.ReasonCode{model.MissingCompileFlag, model.MissingOutputFlag, model.MissingSourceExtension},
		},
		{
			name:   "compiler name inside archive filename",
			line:   "ar rcs libgcc.a foo.o",
			want:   []model.ReasonCode{model.NotACompilerInvocation, model.MissingCompileFlag, model.MissingOutputFlag},
			butNot: nil,
		},
		{
			name: "cmake rule output is flagged as noise",
			line: "Building C object CMakeFiles/foo.dir/foo.c.o",
			want: []model.ReasonCode{model.LooksLikeBuildSystemNoise, model.MissingCompileFlag, model.MissingOutputFlag},
			// foo.c.o still satisfies the substring extension heuristic
			butNot: []model.ReasonCode{model.MissingSourceExtension},
		},
		{
			name:   "linker invocation",
			line:   "/usr/bin/gcc -o app foo.o bar.o",
			want:   []model.ReasonCode{model.MissingCompileFlag, model.MissingSourceExtension},
			butNot: []model.ReasonCode{model.MissingOutputFlag, model.NotACompilerInvocation},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := c.Classify(tc.line)
			if out.Accepted {
				t.Fatal("expected reject")
			}
			for _, code := range tc.want {
				if !hasReason(out, code) {
					t.Fatalf("missing reason %s in %v", code, out.Reasons)
				}
			}
			for _, code := range tc.butNot {
				if hasReason(out, code) {
					t.Fatalf("unexpected reason %s in %v", code, out.Reasons)
				}
			}
		})
	}
}

func TestClassify_AcceptsBareCompilerAtLineStart(t *testing.T) {
	c := newTestClassifier(t)

	out := c.Classify("cc -c -o foo.o foo.c")
	if !out.Accepted {
		t.Fatalf("expected accept, got reasons %v", out.Reasons)
	}
}

func TestClassify_NoiseNeverVetoesAcceptance(t *testing.T) {
	c := newTestClassifier(t)

	out := c.Classify("/usr/bin/gcc -c -o CMakeFiles/foo.dir/foo.o foo.c")
	if !out.Accepted {
		t.Fatalf("denylist must be diagnostic only, got reasons %v", out.Reasons)
	}
}

func TestClassify_EmptyExtractionStillAccepts(t *testing.T) {
	c := newTestClassifier(t)

	// foo.c.tmp satisfies the substring extension check, but no token ends
	// in a source extension, so extraction comes up empty.
	out := c.Classify("/usr/bin/gcc -c -o foo.o foo.c.tmp")
	if !out.Accepted {
		t.Fatalf("expected accept, got reasons %v", out.Reasons)
	}
	if out.Record.File != "" {
		t.Fatalf("expected empty file field, got %q", out.Record.File)
	}
}

func TestClassify_PatternExtractionTolerantOfTrailingFlags(t *testing.T) {
	line := "/usr/bin/g++ -c -o bar.o bar.cpp -I/usr/include"

	pattern := NewClassifier(config.DefaultConfig())
	out := pattern.Classify(line)
	if !out.Accepted {
		t.Fatalf("expected accept, got reasons %v", out.Reasons)
	}
	if out.Record.File != "bar.cpp" {
		t.Fatalf("pattern policy: expected bar.cpp, got %q", out.Record.File)
	}

	cfg := config.DefaultConfig()
	cfg.Extract = config.ExtractLastToken
	positional := NewClassifier(cfg)
	out = positional.Classify(line)
	if out.Record.File != "-I/usr/include" {
		t.Fatalf("last-token policy: expected -I/usr/include, got %q", out.Record.File)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := newTestClassifier(t)

	lines := []string{
		"/usr/bin/gcc -c -o foo.o foo.c",
		"make[1]: Entering directory '/src'",
		"",
	}
	for _, line := range lines {
		first := c.Classify(line)
		second := c.Classify(line)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("classification of %q not idempotent: %v vs %v", line, first, second)
		}
	}
}

func TestClassify_CustomCompilerSet(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Compilers = []string{"arm-none-eabi-gcc"}
	c := NewClassifier(cfg)

	out := c.Classify("/opt/arm/bin/arm-none-eabi-gcc -c -o startup.o startup.c")
	if !out.Accepted {
		t.Fatalf("expected accept for custom compiler, got reasons %v", out.Reasons)
	}

	out = c.Classify("/usr/bin/gcc -c -o foo.o foo.c")
	if out.Accepted {
		t.Fatal("gcc must not match once removed from the compiler set")
	}
}
